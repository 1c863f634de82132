// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
)

func TestCachedUserCodec(t *testing.T) {
	user := &User{
		ID:           "0190b5f2-7f3a-7c41-9b1e-2f6d3c8a4e10",
		Username:     "alice",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuN4V5pL2yK1a7f0vGkqX3j9m8n7b6c5d",
		Role:         sec.RoleMember,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := encodeCachedUser(user)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), user.PasswordHash)
	assert.NotContains(t, string(payload), "password")

	decoded, err := decodeCachedUser(payload)
	require.NoError(t, err)
	assert.Equal(t, user.ID, decoded.ID)
	assert.Equal(t, user.Username, decoded.Username)
	assert.Equal(t, user.Role, decoded.Role)
	assert.True(t, user.CreatedAt.Equal(decoded.CreatedAt))
	assert.Empty(t, decoded.PasswordHash)
	assert.True(t, decoded.ReadOnly())
}

func TestCachedUserCodec_Malformed(t *testing.T) {
	_, err := decodeCachedUser([]byte("{not json"))
	assert.Error(t, err)
}
