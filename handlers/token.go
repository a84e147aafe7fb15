// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/middleware"
	"github.com/danielhkuo/contesthub/models"
)

type TokenHandler struct {
	tokens *auth.TokenService
}

func NewTokenHandler(tokens *auth.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// IssueToken handles POST /jwt
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.tokens.Issue(auth.Identity{Email: email, Name: req.Name})
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{Token: token})
}
