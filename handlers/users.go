// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/middleware"
	"github.com/danielhkuo/contesthub/models"
)

type UserHandler struct {
	store db.UserStore
	cfg   cliparse.Config
}

func NewUserHandler(store db.UserStore, cfg cliparse.Config) *UserHandler {
	return &UserHandler{store: store, cfg: cfg}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}

// CreateUser handles POST /users
// Inserts the user on first sign-in; repeated calls are acknowledged
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := middleware.ParseJSONBody(r, &user); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	// Roles are only granted through updateRole
	user.ID = ""
	user.Role = models.RoleUser

	id, created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if !created {
		middleware.JSONResponse(w, http.StatusOK, models.InsertResponse{
			Message: "user already exists",
		})
		return
	}

	slog.Info("user created", "user_id", id, "email", user.Email)

	middleware.JSONResponse(w, http.StatusOK, models.InsertResponse{InsertedID: &id})
}

// UpdateRole handles PUT /users/updateRole/{email}
// Under the self policy callers may only change their own role and may not
// promote themselves; under the admin policy the route is behind
// RequireAdmin and any user can be changed.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if h.cfg.RolePolicy != cliparse.RolePolicyAdmin && caller.Email != email {
		middleware.ErrorResponse(w, http.StatusForbidden, "forbidden access")
		return
	}

	var req models.UpdateRoleRequest
	if err := middleware.ParseStrictJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.NewRole != models.RoleUser && req.NewRole != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "newRole must be one of: user, admin")
		return
	}

	// Under the self policy only an existing admin may hold the admin role;
	// demotion is always allowed
	if h.cfg.RolePolicy != cliparse.RolePolicyAdmin && req.NewRole == models.RoleAdmin {
		current, err := h.store.GetUser(r.Context(), caller.Email)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			slog.Error("failed to look up caller", "email", caller.Email, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if err != nil || !current.IsAdmin() {
			slog.Warn("self promotion refused", "email", caller.Email)
			middleware.ErrorResponse(w, http.StatusForbidden, "forbidden access")
			return
		}
	}

	user, err := h.store.UpdateUserRole(r.Context(), email, req.NewRole)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to update role", "email", email, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("role updated", "email", email, "role", req.NewRole, "by", caller.Email)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateRoleResponse{
		Message: "User role updated successfully",
		User:    user,
	})
}
