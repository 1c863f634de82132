// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by data/migrations.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    string

	// UsernameKey is the unique constraint guarding Username.
	UsernameKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Username:     "username",
	PasswordHash: "passwordhash",
	Role:         "role",
	CreatedAt:    "createdat",
	UsernameKey:  "users_account_username_key",
}

// Columns returns all column names in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.PasswordHash, t.Role, t.CreatedAt}
}

// ColumnList returns Columns joined for a SELECT or INSERT list.
func (t UserAccountTable) ColumnList() string {
	return strings.Join(t.Columns(), ", ")
}
