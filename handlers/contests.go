// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/middleware"
	"github.com/danielhkuo/contesthub/models"
)

type ContestHandler struct {
	store db.ContestStore
	cfg   cliparse.Config
}

func NewContestHandler(store db.ContestStore, cfg cliparse.Config) *ContestHandler {
	return &ContestHandler{store: store, cfg: cfg}
}

// storeError maps a store failure onto a response
func storeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, db.ErrInvalidID):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid contest id")
	case errors.Is(err, db.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Contest not found")
	case errors.Is(err, models.ErrEmptyPatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to "+action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// ListContests handles GET /contest
// Optional ?category= narrows the list
func (h *ContestHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.store.ListContests(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		storeError(w, err, "list contests")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, contests)
}

// GetContest handles GET /contest/{id}
func (h *ContestHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.store.GetContest(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "query contest")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, contest)
}

// CreateContest handles POST /contest
func (h *ContestHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	var req models.ContestFields
	if err := middleware.ParseStrictJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := req.ValidateCreate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.store.CreateContest(r.Context(), req.Contest())
	if err != nil {
		storeError(w, err, "insert contest")
		return
	}

	slog.Info("contest created", "contest_id", id, "name", *req.Name)

	middleware.JSONResponse(w, http.StatusOK, models.InsertResponse{InsertedID: &id})
}

// UpdateContest handles PATCH /contest/{id}
// Only the fields present in the body are written
func (h *ContestHandler) UpdateContest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !db.ValidID(id) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid contest id")
		return
	}

	var req models.ContestFields
	if err := middleware.ParseStrictJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := req.ValidatePatch(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.store.UpdateContest(r.Context(), id, req)
	if err != nil {
		storeError(w, err, "update contest")
		return
	}

	slog.Info("contest updated", "contest_id", id, "matched", res.MatchedCount, "modified", res.ModifiedCount)

	middleware.JSONResponse(w, http.StatusOK, res)
}

// DeleteContest handles DELETE /contest/{id}
func (h *ContestHandler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := h.store.DeleteContest(r.Context(), id)
	if err != nil {
		storeError(w, err, "delete contest")
		return
	}

	slog.Info("contest deleted", "contest_id", id, "deleted", res.DeletedCount)

	middleware.JSONResponse(w, http.StatusOK, res)
}
