// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/migration"
)

func TestPgx5DSN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"postgres://u:p@localhost:5432/auth", "pgx5://u:p@localhost:5432/auth"},
		{"postgresql://u:p@db/auth?sslmode=disable", "pgx5://u:p@db/auth?sslmode=disable"},
		{"pgx5://u:p@db/auth", "pgx5://u:p@db/auth"},
		{"host=localhost dbname=auth", "host=localhost dbname=auth"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, migration.Pgx5DSN(tt.input))
		})
	}
}
