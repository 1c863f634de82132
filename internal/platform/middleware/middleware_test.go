// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/apperr"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/ctxutil"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/middleware"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/validate"
)

type stubConfig struct {
	development bool
	production  bool
	origins     []string
}

func (c stubConfig) IsDevelopment() bool         { return c.development }
func (c stubConfig) IsProduction() bool          { return c.production }
func (c stubConfig) AllowedOriginList() []string { return c.origins }

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestGate covers each outcome state and checks that the wrapped handler only
runs on success.
*/
func TestGate(t *testing.T) {
	identity := &authn.Identity{UserID: "user-1", Username: "alice"}

	tests := []struct {
		name           string
		outcome        authn.Outcome
		expectedStatus int
		expectedCode   string
		expectNext     bool
	}{
		{"authenticated", authn.Authenticated(identity), http.StatusOK, "", true},
		{"rejected_no_user", authn.Rejected(authn.ReasonNoSuchUser), http.StatusUnauthorized, apperr.CodeUnauthorized, false},
		{"rejected_bad_password", authn.Rejected(authn.ReasonBadCredentials), http.StatusUnauthorized, apperr.CodeUnauthorized, false},
		{"failed_internal", authn.Failed(errors.New("db down")), http.StatusInternalServerError, apperr.CodeInternal, false},
		{"failed_client_fault", authn.Failed(validate.ErrInvalidJSON), http.StatusBadRequest, apperr.CodeValidation, false},
		{"authenticated_without_identity", authn.Outcome{State: authn.StateAuthenticated}, http.StatusInternalServerError, apperr.CodeInternal, false},
		{"zero_outcome", authn.Outcome{}, http.StatusInternalServerError, apperr.CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := authn.StrategyFunc(func(*http.Request) authn.Outcome { return tt.outcome })

			nextCalled := false
			var seen *authn.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				seen = ctxutil.GetIdentity(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/users", nil)
			middleware.Gate(strategy)(next).ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, tt.expectNext, nextCalled)

			if tt.expectNext {
				assert.Same(t, identity, seen)
				return
			}

			body := decodeError(t, recorder)
			assert.Equal(t, tt.expectedCode, body["code"])
		})
	}
}

/*
TestGate_RejectionsAreIndistinguishable guards against leaking which part of
a credential pair was wrong.
*/
func TestGate_RejectionsAreIndistinguishable(t *testing.T) {
	render := func(reason authn.Reason) string {
		strategy := authn.StrategyFunc(func(*http.Request) authn.Outcome { return authn.Rejected(reason) })
		recorder := httptest.NewRecorder()
		middleware.Gate(strategy)(http.NotFoundHandler()).
			ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))
		return recorder.Body.String()
	}

	assert.Equal(t, render(authn.ReasonNoSuchUser), render(authn.ReasonBadCredentials))
}

/*
TestStructuredLogger_RecordsUserID checks that the request log sees the
identity admitted by an inner gate.
*/
func TestStructuredLogger_RecordsUserID(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	strategy := authn.StrategyFunc(func(*http.Request) authn.Outcome {
		return authn.Authenticated(&authn.Identity{UserID: "user-42", Username: "alice"})
	})
	handler := middleware.RequestID()(
		middleware.StructuredLogger(logger)(
			middleware.Gate(strategy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})),
		),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Contains(t, buffer.String(), `"user_id":"user-42"`)
	assert.Contains(t, buffer.String(), `"status":204`)
}

/*
TestRequestID_Propagates keeps a client-provided correlation ID.
*/
func TestRequestID_Propagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))
}

/*
TestPanicRecovery converts a panic into a 500 JSON response.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, decodeError(t, recorder)["code"])
	assert.NotContains(t, recorder.Body.String(), "boom")
}

/*
TestSecureHeaders checks the header set and the production-only HSTS header.
*/
func TestSecureHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		handler := middleware.SecureHeaders(stubConfig{production: production})(http.NotFoundHandler())
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "SAMEORIGIN", recorder.Header().Get("X-Frame-Options"))
		assert.Equal(t, production, recorder.Header().Get("Strict-Transport-Security") != "")
	}
}

/*
TestCORS only reflects configured origins outside development.
*/
func TestCORS(t *testing.T) {
	cfg := stubConfig{origins: []string{"https://app.example.com"}}
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := httptest.NewRequest(http.MethodGet, "/users", nil)
	allowed.Header.Set("Origin", "https://app.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, allowed)
	assert.Equal(t, "https://app.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/users", nil)
	denied.Header.Set("Origin", "https://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, denied)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/users", nil)
	preflight.Header.Set("Origin", "https://app.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
