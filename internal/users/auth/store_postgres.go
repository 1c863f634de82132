// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/database/schema"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/dberr"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Username uniqueness is enforced by the users_account_username_key constraint;
// concurrent registrations race on the index, not in Go.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var selectUserColumns = fmt.Sprintf(`SELECT %s FROM %s`, schema.UserAccount.ColumnList(), schema.UserAccount.Table)

/*
Insert persists a new user record into the users.account table.

Returns:
  - error: ErrDuplicateUsername on unique violation, or connectivity errors
*/
func (repository *PostgresUserRepository) Insert(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		schema.UserAccount.Table, schema.UserAccount.ColumnList())

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("postgres_user_repo_insert_failed: %w", err)
	}

	return nil
}

/*
Update persists username, password hash and role for an existing account.

Returns:
  - error: ErrUserNotFound when no row matched, ErrDuplicateUsername on collision
*/
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NULLIF($4, '')
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.PasswordHash, schema.UserAccount.Role,
		schema.UserAccount.ID)

	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		string(user.Role),
	)

	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

/*
FindByID retrieves a user record by its unique ID.

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := selectUserColumns + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	// The id column is UUID-typed; anything else cannot match a row.
	if !uuid.Valid(id) {
		return nil, ErrUserNotFound
	}

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by its normalized username.

Returns:
  - *User: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := selectUserColumns + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Username)

	user, err := scanUser(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_username_failed: %w", err)
	}

	return user, nil
}

/*
List returns every account ordered by creation time.
*/
func (repository *PostgresUserRepository) List(ctx context.Context) ([]*User, error) {
	query := selectUserColumns + fmt.Sprintf(` ORDER BY %s, %s`, schema.UserAccount.CreatedAt, schema.UserAccount.ID)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}

	return users, nil
}

// scanUser hydrates a [User] from a row produced by selectUserColumns.
func scanUser(row pgx.Row) (*User, error) {
	var role *string
	user := &User{}

	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
		return nil, err
	}

	if role != nil {
		user.Role = sec.UserRole(*role)
	}

	return user, nil
}
