// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/middleware"
	requestutil "github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/request"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/respond"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account HTTP endpoints.
//
// # Scope
//
// Registration is public. Login is gated by the credential strategy and the
// user listing by the token strategy; both handlers only run once the gate
// has attached an identity.
type Handler struct {
	authService *Service
	credentials authn.Strategy
	tokens      authn.Strategy
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, credentials, tokens authn.Strategy) *Handler {
	return &Handler{
		authService: service,
		credentials: credentials,
		tokens:      tokens,
	}
}

// Routes returns a [chi.Router] configured with the account routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a token.
//   - POST /login    : Authenticates a username and password, returns a token.
//   - GET  /users    : Lists accounts. Requires a bearer token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)

	// Gated endpoints
	router.With(middleware.Gate(handler.credentials)).Post("/login", handler.login)
	router.With(middleware.Gate(handler.tokens)).Get("/users", handler.listUsers)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /register

Description: Validates input, persists the account with a hashed password,
and signs a token so the client is logged in immediately.

Request:
  - Body: registerRequest (Username, Password)

Response:
  - 201: {user, token}
  - 400: VALIDATION_ERROR: Bad JSON, missing fields or weak password
  - 409: CONFLICT: Username already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Present(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldUser:  session.User,
		FieldToken: session.Token,
	})
}

/*
Login issues a token for a request the credential strategy admitted.

POST /login

Request:
  - Body: {username, password}

Response:
  - 200: {token, user}
  - 401: UNAUTHORIZED: Unknown user or wrong password (identical body)
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.IssueToken(identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: session.Token,
		FieldUser:  session.User,
	})
}

/*
ListUsers returns every registered account.

GET /users

Response:
  - 200: [{id, username}]
  - 401: UNAUTHORIZED: Missing, invalid or expired token
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.authService.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}
