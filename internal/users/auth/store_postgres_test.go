// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/apperr"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/database/schema"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/migration"
	pgstore "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/postgres"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/users/auth"
	"github.com/nickbrenn/Nick-Brennan-Auth/pkg/uuid"
)

const testMigrationPath = "../../../data/migrations"

// openTestPool connects to DATABASE_URL, applies migrations and empties
// the accounts table. The test is skipped when no database is configured.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migration.RunUp(dsn, testMigrationPath, logger))

	truncate := func() {
		_, err := pool.Exec(context.Background(), "TRUNCATE "+schema.UserAccount.Table)
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(truncate)

	return pool
}

func newPostgresUser(t *testing.T, username string, role sec.UserRole) *auth.User {
	t.Helper()
	hash, err := newTestHasher().Hash(testPassword)
	require.NoError(t, err)
	return &auth.User{ID: uuid.New(), Username: username, PasswordHash: hash, Role: role}
}

func TestPostgresUserRepository_InsertAndFind(t *testing.T) {
	repository := auth.NewUserRepository(openTestPool(t))
	ctx := context.Background()

	user := newPostgresUser(t, "alice", sec.RoleMember)
	require.NoError(t, repository.Insert(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repository.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, user.PasswordHash, byID.PasswordHash)
	assert.Equal(t, sec.RoleMember, byID.Role)

	byName, err := repository.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repository.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestPostgresUserRepository_DuplicateUsername(t *testing.T) {
	pool := openTestPool(t)
	repository := auth.NewUserRepository(pool)
	ctx := context.Background()

	require.NoError(t, repository.Insert(ctx, newPostgresUser(t, "alice", sec.RoleMember)))

	err := repository.Insert(ctx, newPostgresUser(t, "alice", sec.RoleMember))
	assert.ErrorIs(t, err, auth.ErrDuplicateUsername)

	store := auth.NewCredentialStore(repository, newTestHasher())
	_, err = store.Create(ctx, "  Alice ", testPassword)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	other := newPostgresUser(t, "bob", sec.RoleMember)
	require.NoError(t, repository.Insert(ctx, other))
	other.Username = "alice"
	assert.ErrorIs(t, repository.Update(ctx, other), auth.ErrDuplicateUsername)
}

func TestPostgresUserRepository_UpdateMissing(t *testing.T) {
	repository := auth.NewUserRepository(openTestPool(t))
	ctx := context.Background()

	ghost := newPostgresUser(t, "ghost", sec.RoleMember)
	assert.ErrorIs(t, repository.Update(ctx, ghost), auth.ErrUserNotFound)

	err := auth.NewCredentialStore(repository, newTestHasher()).Save(ctx, ghost)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestPostgresUserRepository_Update(t *testing.T) {
	repository := auth.NewUserRepository(openTestPool(t))
	ctx := context.Background()

	user := newPostgresUser(t, "carol", sec.RoleMember)
	require.NoError(t, repository.Insert(ctx, user))

	user.Role = sec.RoleAdmin
	require.NoError(t, repository.Update(ctx, user))

	found, err := repository.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, found.Role)
}

func TestPostgresUserRepository_EmptyRoleIsNull(t *testing.T) {
	pool := openTestPool(t)
	repository := auth.NewUserRepository(pool)
	ctx := context.Background()

	user := newPostgresUser(t, "dave", sec.RoleNone)
	require.NoError(t, repository.Insert(ctx, user))

	var isNull bool
	query := "SELECT " + schema.UserAccount.Role + " IS NULL FROM " + schema.UserAccount.Table +
		" WHERE " + schema.UserAccount.ID + " = $1"
	require.NoError(t, pool.QueryRow(ctx, query, user.ID).Scan(&isNull))
	assert.True(t, isNull)

	found, err := repository.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleNone, found.Role)

	user.Role = sec.RoleMember
	require.NoError(t, repository.Update(ctx, user))
	user.Role = sec.RoleNone
	require.NoError(t, repository.Update(ctx, user))
	require.NoError(t, pool.QueryRow(ctx, query, user.ID).Scan(&isNull))
	assert.True(t, isNull)
}

func TestPostgresUserRepository_FindByID_NotAUUID(t *testing.T) {
	repository := auth.NewUserRepository(openTestPool(t))

	_, err := repository.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = repository.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestPostgresUserRepository_ListOrder(t *testing.T) {
	repository := auth.NewUserRepository(openTestPool(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"zed", "amy", "kim"} {
		user := newPostgresUser(t, name, sec.RoleMember)
		user.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repository.Insert(ctx, user))
	}

	users, err := repository.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "zed", users[0].Username)
	assert.Equal(t, "amy", users[1].Username)
	assert.Equal(t, "kim", users[2].Username)
}
