// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/models"
)

// Verifier checks an identity token
type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

// UserLookup finds a user by email for the admin check
type UserLookup interface {
	GetUser(ctx context.Context, email string) (models.User, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by RequireAuth
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// attaches the verified identity to the request context
func RequireAuth(tokens Verifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			id, err := tokens.Verify(token)
			if err != nil {
				slog.Info("token rejected", "path", r.URL.Path, "error", err)
				ErrorResponse(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			next(w, r.WithContext(WithIdentity(r.Context(), id)))
		}
	}
}

// RequireAdmin rejects callers whose user record is missing or not an
// admin with 403. It must run after RequireAuth.
func RequireAdmin(users UserLookup) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			user, err := users.GetUser(r.Context(), id.Email)
			if errors.Is(err, db.ErrNotFound) {
				ErrorResponse(w, http.StatusForbidden, "forbidden access")
				return
			}
			if err != nil {
				slog.Error("failed to look up user for admin check", "email", id.Email, "error", err)
				ErrorResponse(w, http.StatusInternalServerError, "Database error")
				return
			}

			if !user.IsAdmin() {
				ErrorResponse(w, http.StatusForbidden, "forbidden access")
				return
			}

			next(w, r)
		}
	}
}

// Chain applies guards so that the first one runs first
func Chain(h http.HandlerFunc, guards ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return h
}
