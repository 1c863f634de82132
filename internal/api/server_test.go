// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/api"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/config"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/constants"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/sec"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/users/auth"
)

func newTestServer(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{ServerPort: "0", Environment: "test", StorageDriver: config.StorageMemory}

	tokens, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", constants.AuthIssuer)
	require.NoError(t, err)

	hasher := sec.NewBcryptHasherWithCost(bcrypt.MinCost)
	store := auth.NewCredentialStore(auth.NewMemoryUserRepository(), hasher)

	liveness, readiness := api.NewHealthHandlers(deps, logger)
	server := api.NewServer(cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth: auth.NewHandler(
			auth.NewService(store, tokens),
			auth.NewCredentialStrategy(store, hasher),
			auth.NewTokenStrategy(store, tokens),
		),
	})
	return server.Handler()
}

func serve(handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buffer bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buffer).Encode(body)
	}

	request := httptest.NewRequest(method, path, &buffer)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Banner(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := serve(handler, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "/", body["route"])
	assert.Equal(t, api.BannerMessage, body["message"])

	assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestServer_Health(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{})
		recorder := serve(handler, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("ready_without_dependencies", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{})
		recorder := serve(handler, http.MethodGet, "/ready", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("degraded", func(t *testing.T) {
		handler := newTestServer(t, api.HealthDependencies{
			CheckDatabase: func(context.Context) error { return nil },
			CheckCache:    func(context.Context) error { return errors.New("redis down") },
		})
		recorder := serve(handler, http.MethodGet, "/ready", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

		var body struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "degraded", body.Status)
		require.Len(t, body.Checks, 2)
		assert.True(t, body.Checks[0].OK)
		assert.False(t, body.Checks[1].OK)
	})
}

/*
TestServer_AliceScenario registers alice, logs in as "Alice", checks that a
wrong password and an unknown user look identical, and lists users with
the issued token.
*/
func TestServer_AliceScenario(t *testing.T) {
	handler := newTestServer(t, api.HealthDependencies{})

	recorder := serve(handler, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"password": "supersecret123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)

	recorder = serve(handler, http.MethodPost, "/register", "", map[string]string{
		"username": "Alice",
		"password": "another strong password",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = serve(handler, http.MethodPost, "/login", "", map[string]string{
		"username": "Alice",
		"password": "supersecret123",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	wrongPassword := serve(handler, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
		"password": "supersecret124",
	})
	unknownUser := serve(handler, http.MethodPost, "/login", "", map[string]string{
		"username": "bob",
		"password": "supersecret123",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())

	recorder = serve(handler, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(handler, http.MethodGet, "/users", session.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0]["username"])
	assert.NotContains(t, users[0], "password")
	assert.NotContains(t, users[0], "passwordHash")
}
