// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/db"
	"github.com/danielhkuo/contesthub/models"
	"github.com/danielhkuo/contesthub/testutil"
)

func TestCreateUser(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(store, cfg)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectInserted bool
	}{
		{
			name:           "new user",
			body:           map[string]any{"email": "ann@example.com", "name": "Ann", "photo": "a.png", "city": "Oslo"},
			expectedStatus: http.StatusOK,
			expectInserted: true,
		},
		{
			name:           "same email again",
			body:           map[string]any{"email": "ann@example.com", "name": "Someone Else"},
			expectedStatus: http.StatusOK,
			expectInserted: false,
		},
		{
			name:           "missing email",
			body:           map[string]any{"name": "No Mail"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "null body",
			body:           `null`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/users", tt.body, nil)
			w := httptest.NewRecorder()

			handler.CreateUser(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp models.InsertResponse
			testutil.AssertJSON(t, w, &resp)

			if tt.expectInserted {
				if resp.InsertedID == nil || !db.ValidID(*resp.InsertedID) {
					t.Errorf("Expected a valid insertedId, got %v", resp.InsertedID)
				}
			} else {
				if resp.InsertedID != nil {
					t.Errorf("Expected null insertedId, got %s", *resp.InsertedID)
				}
				if resp.Message != "user already exists" {
					t.Errorf("Expected exists message, got '%s'", resp.Message)
				}
			}
		})
	}

	// Idempotence: exactly one record, with the first payload
	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 stored user, got %d", len(users))
	}
	if users[0].Name != "Ann" || users[0].Profile["city"] != "Oslo" {
		t.Errorf("Unexpected stored user: %+v", users[0])
	}
}

func TestCreateUser_IgnoresRequestedRole(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewUserHandler(store, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/users", map[string]any{"email": "sneaky@example.com", "role": "admin"}, nil)
	w := httptest.NewRecorder()

	handler.CreateUser(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	user, err := store.GetUser(context.Background(), "sneaky@example.com")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("Expected role 'user', got '%s'", user.Role)
	}
}

func TestListUsers(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewUserHandler(store, testutil.GetTestConfig())

	t.Run("empty list is an array", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListUsers(w, testutil.MakeRequest("GET", "/users", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		if body := w.Body.String(); body != "[]\n" {
			t.Errorf("Expected empty JSON array, got '%s'", body)
		}
	})

	testutil.CreateTestUser(t, store, "one@example.com", models.RoleUser)
	testutil.CreateTestUser(t, store, "two@example.com", models.RoleAdmin)

	t.Run("lists all users", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListUsers(w, testutil.MakeRequest("GET", "/users", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)

		var users []models.User
		testutil.AssertJSON(t, w, &users)
		if len(users) != 2 {
			t.Fatalf("Expected 2 users, got %d", len(users))
		}

		roles := map[string]string{}
		for _, u := range users {
			roles[u.Email] = u.Role
		}
		if roles["one@example.com"] != models.RoleUser || roles["two@example.com"] != models.RoleAdmin {
			t.Errorf("Unexpected roles: %v", roles)
		}
	})
}

func TestUpdateRole_SelfPolicy(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(store, cfg)

	testutil.CreateTestUser(t, store, "me@example.com", models.RoleUser)
	testutil.CreateTestUser(t, store, "other@example.com", models.RoleUser)
	testutil.CreateTestUser(t, store, "chief@example.com", models.RoleAdmin)

	tests := []struct {
		name           string
		caller         string
		target         string
		body           interface{}
		expectedStatus int
		expectedRole   string
	}{
		{"self demotion is a no-op for a user", "me@example.com", "me@example.com", models.UpdateRoleRequest{NewRole: "user"}, http.StatusOK, models.RoleUser},
		{"self promotion", "me@example.com", "me@example.com", models.UpdateRoleRequest{NewRole: "admin"}, http.StatusForbidden, ""},
		{"other user", "me@example.com", "other@example.com", models.UpdateRoleRequest{NewRole: "admin"}, http.StatusForbidden, ""},
		{"admin keeps admin", "chief@example.com", "chief@example.com", models.UpdateRoleRequest{NewRole: "admin"}, http.StatusOK, models.RoleAdmin},
		{"admin cannot promote others", "chief@example.com", "other@example.com", models.UpdateRoleRequest{NewRole: "admin"}, http.StatusForbidden, ""},
		{"invalid role", "me@example.com", "me@example.com", models.UpdateRoleRequest{NewRole: "superuser"}, http.StatusBadRequest, ""},
		{"empty role", "me@example.com", "me@example.com", map[string]string{}, http.StatusBadRequest, ""},
		{"unknown field", "me@example.com", "me@example.com", map[string]string{"newRole": "user", "email": "x"}, http.StatusBadRequest, ""},
		{"missing user", "ghost@example.com", "ghost@example.com", models.UpdateRoleRequest{NewRole: "user"}, http.StatusNotFound, ""},
		{"missing user promotion", "ghost@example.com", "ghost@example.com", models.UpdateRoleRequest{NewRole: "admin"}, http.StatusForbidden, ""},
		{"admin demotes self", "chief@example.com", "chief@example.com", models.UpdateRoleRequest{NewRole: "user"}, http.StatusOK, models.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PUT", "/users/updateRole/"+tt.target, tt.body, nil)
			req.SetPathValue("email", tt.target)
			req = asCaller(req, tt.caller)
			w := httptest.NewRecorder()

			handler.UpdateRole(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.UpdateRoleResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.User.Email != tt.target || resp.User.Role != tt.expectedRole {
					t.Errorf("Unexpected user in response: %+v", resp.User)
				}
				if resp.Message == "" {
					t.Error("Expected a message")
				}
			}
		})
	}

	// Refused attempts must not have changed any role
	for _, email := range []string{"me@example.com", "other@example.com"} {
		u, _ := store.GetUser(context.Background(), email)
		if u.Role != models.RoleUser {
			t.Errorf("Expected %s to stay 'user', got '%s'", email, u.Role)
		}
	}
}

func TestUpdateRole_AdminPolicy(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	cfg.RolePolicy = cliparse.RolePolicyAdmin
	handler := NewUserHandler(store, cfg)

	testutil.CreateTestUser(t, store, "boss@example.com", models.RoleAdmin)
	testutil.CreateTestUser(t, store, "member@example.com", models.RoleUser)

	req := testutil.MakeRequest("PUT", "/users/updateRole/member@example.com", models.UpdateRoleRequest{NewRole: "admin"}, nil)
	req.SetPathValue("email", "member@example.com")
	req = asCaller(req, "boss@example.com")
	w := httptest.NewRecorder()

	handler.UpdateRole(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	member, _ := store.GetUser(context.Background(), "member@example.com")
	if member.Role != models.RoleAdmin {
		t.Errorf("Expected member promoted to admin, got '%s'", member.Role)
	}
}

func TestUpdateRole_Unauthenticated(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewUserHandler(store, testutil.GetTestConfig())

	req := testutil.MakeRequest("PUT", "/users/updateRole/me@example.com", models.UpdateRoleRequest{NewRole: "admin"}, nil)
	req.SetPathValue("email", "me@example.com")
	w := httptest.NewRecorder()

	handler.UpdateRole(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestUserHandler_StoreFailures(t *testing.T) {
	handler := NewUserHandler(brokenStore{}, testutil.GetTestConfig())

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListUsers(w, testutil.MakeRequest("GET", "/users", nil, nil))
		testutil.AssertStatus(t, w, http.StatusInternalServerError)
	})

	t.Run("create", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateUser(w, testutil.MakeRequest("POST", "/users", map[string]string{"email": "a@b.com"}, nil))
		testutil.AssertStatus(t, w, http.StatusInternalServerError)
	})

	t.Run("update role", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/users/updateRole/a@b.com", models.UpdateRoleRequest{NewRole: "user"}, nil)
		req.SetPathValue("email", "a@b.com")
		w := httptest.NewRecorder()
		handler.UpdateRole(w, asCaller(req, "a@b.com"))
		testutil.AssertStatus(t, w, http.StatusInternalServerError)
	})
}
