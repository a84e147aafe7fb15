// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/models"
)

// fakeUsers is an in-memory UserLookup
type fakeUsers struct {
	users map[string]models.User
	err   error
	calls int
}

func (f *fakeUsers) GetUser(ctx context.Context, email string) (models.User, error) {
	f.calls++
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return models.User{}, db.ErrNotFound
	}
	return u, nil
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenService("guard-secret", time.Hour)
	valid, _ := tokens.Issue(auth.Identity{Email: "ann@example.com"})

	expiredSvc := tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, _ := expiredSvc.Issue(auth.Identity{Email: "ann@example.com"})

	foreign, _ := auth.NewTokenService("other-secret", time.Hour).Issue(auth.Identity{Email: "ann@example.com"})

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
		expectCalled   bool
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"no bearer scheme", valid, http.StatusUnauthorized, false},
		{"basic scheme", "Basic " + valid, http.StatusUnauthorized, false},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, false},
		{"malformed token", "Bearer not-a-token", http.StatusUnauthorized, false},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, false},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			var gotEmail string
			handler := RequireAuth(tokens)(func(w http.ResponseWriter, r *http.Request) {
				called = true
				id, ok := IdentityFrom(r.Context())
				if ok {
					gotEmail = id.Email
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if called != tc.expectCalled {
				t.Errorf("Expected handler called = %v, got %v", tc.expectCalled, called)
			}
			if tc.expectCalled && gotEmail != "ann@example.com" {
				t.Errorf("Expected identity 'ann@example.com' in context, got '%s'", gotEmail)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	users := &fakeUsers{users: map[string]models.User{
		"boss@example.com": {Email: "boss@example.com", Role: models.RoleAdmin},
		"pleb@example.com": {Email: "pleb@example.com", Role: models.RoleUser},
	}}

	testCases := []struct {
		name           string
		identity       *auth.Identity
		lookupErr      error
		expectedStatus int
		expectCalled   bool
	}{
		{"admin", &auth.Identity{Email: "boss@example.com"}, nil, http.StatusOK, true},
		{"ordinary user", &auth.Identity{Email: "pleb@example.com"}, nil, http.StatusForbidden, false},
		{"unknown user", &auth.Identity{Email: "ghost@example.com"}, nil, http.StatusForbidden, false},
		{"no identity", nil, nil, http.StatusUnauthorized, false},
		{"store failure", &auth.Identity{Email: "boss@example.com"}, errors.New("connection reset"), http.StatusInternalServerError, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			users.err = tc.lookupErr
			called := false
			handler := RequireAdmin(users)(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/contest", nil)
			if tc.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tc.identity))
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, w.Code)
			}
			if called != tc.expectCalled {
				t.Errorf("Expected handler called = %v, got %v", tc.expectCalled, called)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	tokens := auth.NewTokenService("chain-secret", time.Hour)
	users := &fakeUsers{users: map[string]models.User{}}

	handler := Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, RequireAuth(tokens), RequireAdmin(users))

	// Authentication failure must stop the chain before the admin lookup
	req := httptest.NewRequest("DELETE", "/contest/x", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if users.calls != 0 {
		t.Errorf("Expected no user lookup, got %d", users.calls)
	}

	token, _ := tokens.Issue(auth.Identity{Email: "pleb@example.com"})
	req = httptest.NewRequest("DELETE", "/contest/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
	if users.calls != 1 {
		t.Errorf("Expected one user lookup, got %d", users.calls)
	}
}
