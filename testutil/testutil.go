// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/contesthub/auth"
	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/models"
)

// TestDBURL opens a private in-memory SQLite database
const TestDBURL = ":memory:"

// SetupTestStore creates a fresh store with the full schema.
// The store is closed when the test ends.
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()

	store, err := db.OpenSQL(context.Background(), "sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close(context.Background()) })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  TestDBURL,
		TokenSecret:  "test-token-secret",
		TokenTTL:     time.Hour,
		EnforceAdmin: true,
		RolePolicy:   cliparse.RolePolicySelf,
	}
}

// IssueTestToken signs a token for email with the config secret
func IssueTestToken(t *testing.T, cfg cliparse.Config, email string) string {
	t.Helper()

	token, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL).Issue(auth.Identity{Email: email})
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// BearerHeader builds the Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestUser inserts a user with the given role and returns its ID
func CreateTestUser(t *testing.T, store db.UserStore, email, role string) string {
	t.Helper()

	ctx := context.Background()
	id, created, err := store.CreateUser(ctx, models.User{Email: email, Name: "Test User", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	if !created {
		t.Fatalf("Test user %s already exists", email)
	}

	if role != models.RoleUser {
		if _, err := store.UpdateUserRole(ctx, email, role); err != nil {
			t.Fatalf("Failed to set test user role: %v", err)
		}
	}

	return id
}

// CreateTestContest inserts a contest and returns its ID
func CreateTestContest(t *testing.T, store db.ContestStore, c models.Contest) string {
	t.Helper()

	id, err := store.CreateContest(context.Background(), c)
	if err != nil {
		t.Fatalf("Failed to create test contest: %v", err)
	}

	return id
}

// SampleContest returns a fully populated contest payload
func SampleContest() models.Contest {
	return models.Contest{
		Name:        "Logo Design",
		Category:    "Art",
		Fee:         10,
		Prize:       500,
		Deadline:    "2024-12-31",
		Details:     "Design a logo for ContestHub",
		Instruction: "Submit a PNG",
		Image:       "https://example.com/logo.png",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
