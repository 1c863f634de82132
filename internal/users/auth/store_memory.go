// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryUserRepository is a process-local [UserRepository].
//
// It enforces the same unique-username rule as the PostgreSQL schema and
// is safe for concurrent use. Records are copied on the way in and out so
// callers never share state with the map.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]string
}

// NewMemoryUserRepository returns an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

// Insert stores a new record.
func (repository *MemoryUserRepository) Insert(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byUsername[user.Username]; taken {
		return ErrDuplicateUsername
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	repository.byID[user.ID] = user.clone()
	repository.byUsername[user.Username] = user.ID
	return nil
}

// Update replaces an existing record.
func (repository *MemoryUserRepository) Update(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.byID[user.ID]
	if !ok {
		return ErrUserNotFound
	}

	if ownerID, taken := repository.byUsername[user.Username]; taken && ownerID != user.ID {
		return ErrDuplicateUsername
	}

	delete(repository.byUsername, existing.Username)

	stored := user.clone()
	stored.CreatedAt = existing.CreatedAt
	repository.byID[user.ID] = stored
	repository.byUsername[user.Username] = user.ID
	return nil
}

// FindByID returns a copy of the record with the given ID.
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.clone(), nil
}

// FindByUsername returns a copy of the record with the given username.
func (repository *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return repository.byID[id].clone(), nil
}

// List returns copies of every record ordered by creation time.
func (repository *MemoryUserRepository) List(_ context.Context) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	users := make([]*User, 0, len(repository.byID))
	for _, user := range repository.byID {
		users = append(users, user.clone())
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}
