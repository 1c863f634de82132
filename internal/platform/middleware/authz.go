// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/apperr"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/authn"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/ctxutil"
	"github.com/nickbrenn/Nick-Brennan-Auth/internal/platform/respond"
)

// RejectedMessage is the only text a client sees for a rejected attempt,
// whatever the underlying reason.
const RejectedMessage = "Invalid credentials or token"

// Gate admits a request to next only when strategy authenticates it.
//
// # Flow
//  1. Run the strategy against the request.
//  2. Authenticated: attach the identity to the context and call next.
//  3. Rejected: respond 401 with [RejectedMessage]. next is never called.
//  4. Failed: respond with the cause. Client-fault [apperr.AppError] causes
//     keep their 4xx status, everything else becomes a 500.
//
// # Parameters
//   - strategy: The [authn.Strategy] guarding the route.
//
// # Returns
//   - An [http.Handler] middleware.
func Gate(strategy authn.Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			outcome := strategy.Authenticate(request)
			logger := ctxutil.GetLogger(request.Context())

			switch outcome.State {
			case authn.StateAuthenticated:
				if outcome.Identity == nil {
					respond.Error(writer, request, apperr.Internal(errNilIdentity))
					return
				}

				if slot := identitySlotFrom(request.Context()); slot != nil {
					slot.identity = outcome.Identity
				}

				ctx := ctxutil.WithIdentity(request.Context(), outcome.Identity)
				next.ServeHTTP(writer, request.WithContext(ctx))

			case authn.StateRejected:
				logger.DebugContext(request.Context(), "auth_rejected",
					slog.String("reason", string(outcome.Reason)),
				)
				respond.Error(writer, request, apperr.Unauthorized(RejectedMessage))

			case authn.StateFailed:
				if appError := apperr.As(outcome.Cause); appError != nil && appError.IsClientFault() {
					respond.Error(writer, request, appError)
					return
				}
				respond.Error(writer, request, apperr.Internal(outcome.Cause))

			default:
				respond.Error(writer, request, apperr.Internal(errUnknownOutcome))
			}
		})
	}
}

// # Identity Propagation

// identitySlot lets the gate report the admitted identity back to outer
// middleware (the request logger), which only sees the parent context.
type identitySlot struct {
	identity *authn.Identity
}

type identitySlotKey struct{}

func withIdentitySlot(ctx context.Context, slot *identitySlot) context.Context {
	return context.WithValue(ctx, identitySlotKey{}, slot)
}

func identitySlotFrom(ctx context.Context) *identitySlot {
	slot, _ := ctx.Value(identitySlotKey{}).(*identitySlot)
	return slot
}
