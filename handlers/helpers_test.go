// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/middleware"
	"github.com/danielhkuo/contesthub/models"
)

var errStoreDown = errors.New("store unavailable")

// brokenStore fails every operation, for the Internal error paths
type brokenStore struct{}

func (brokenStore) ListUsers(ctx context.Context) ([]models.User, error) { return nil, errStoreDown }
func (brokenStore) GetUser(ctx context.Context, email string) (models.User, error) {
	return models.User{}, errStoreDown
}
func (brokenStore) CreateUser(ctx context.Context, u models.User) (string, bool, error) {
	return "", false, errStoreDown
}
func (brokenStore) UpdateUserRole(ctx context.Context, email, role string) (models.User, error) {
	return models.User{}, errStoreDown
}
func (brokenStore) ListContests(ctx context.Context, category string) ([]models.Contest, error) {
	return nil, errStoreDown
}
func (brokenStore) GetContest(ctx context.Context, id string) (models.Contest, error) {
	return models.Contest{}, errStoreDown
}
func (brokenStore) CreateContest(ctx context.Context, c models.Contest) (string, error) {
	return "", errStoreDown
}
func (brokenStore) UpdateContest(ctx context.Context, id string, f models.ContestFields) (models.UpdateResult, error) {
	return models.UpdateResult{}, errStoreDown
}
func (brokenStore) DeleteContest(ctx context.Context, id string) (models.DeleteResult, error) {
	return models.DeleteResult{}, errStoreDown
}

// asCaller attaches an authenticated identity as RequireAuth would
func asCaller(r *http.Request, email string) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), auth.Identity{Email: email}))
}
