// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/handlers"
	"github.com/danielhkuo/contesthub/middleware"
)

// LivenessMessage is the body served on GET /
const LivenessMessage = "contestHub is in operation"

type guard = func(http.HandlerFunc) http.HandlerFunc

// route pairs a method+path pattern with its handler and guards
type route struct {
	pattern string
	handler http.HandlerFunc
	guards  []guard
}

func NewRouter(store db.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)

	// Initialize handlers
	tokenHandler := handlers.NewTokenHandler(tokens)
	userHandler := handlers.NewUserHandler(store, cfg)
	contestHandler := handlers.NewContestHandler(store, cfg)

	authed := []guard{middleware.RequireAuth(tokens)}
	admin := []guard{middleware.RequireAuth(tokens), middleware.RequireAdmin(store)}

	// adminOnly is open when admin enforcement is switched off
	adminOnly := admin
	if !cfg.EnforceAdmin {
		adminOnly = nil
	}

	roleUpdate := authed
	if cfg.RolePolicy == cliparse.RolePolicyAdmin {
		roleUpdate = admin
	}

	routes := []route{
		// Token issuance
		{"POST /jwt", tokenHandler.IssueToken, nil},

		// User directory
		{"GET /users", userHandler.ListUsers, adminOnly},
		{"POST /users", userHandler.CreateUser, nil},
		{"PUT /users/updateRole/{email}", userHandler.UpdateRole, roleUpdate},

		// Contest catalog
		{"GET /contest", contestHandler.ListContests, nil},
		{"GET /contest/{id}", contestHandler.GetContest, nil},
		{"POST /contest", contestHandler.CreateContest, adminOnly},
		{"PATCH /contest/{id}", contestHandler.UpdateContest, adminOnly},
		{"DELETE /contest/{id}", contestHandler.DeleteContest, adminOnly},
	}

	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, middleware.WithLogging(middleware.Chain(rt.handler, rt.guards...)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(LivenessMessage))
	})

	return mux
}
