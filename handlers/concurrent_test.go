// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/contesthub/models"
	"github.com/danielhkuo/contesthub/testutil"
)

// TestConcurrentSignIns verifies that simultaneous first sign-ins with the
// same email store exactly one user
func TestConcurrentSignIns(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewUserHandler(store, testutil.GetTestConfig())

	numClients := 10

	var inserted, existing atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body := map[string]string{"email": "race@example.com", "name": "Racer"}
			w := httptest.NewRecorder()
			handler.CreateUser(w, testutil.MakeRequest("POST", "/users", body, nil))

			if w.Code != http.StatusOK {
				return
			}
			var resp models.InsertResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				return
			}
			if resp.InsertedID != nil {
				inserted.Add(1)
			} else {
				existing.Add(1)
			}
		}()
	}

	wg.Wait()

	if inserted.Load() != 1 {
		t.Errorf("Expected exactly 1 insert, got %d", inserted.Load())
	}
	if int(existing.Load()) != numClients-1 {
		t.Errorf("Expected %d exists acknowledgements, got %d", numClients-1, existing.Load())
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 stored user, got %d", len(users))
	}
}

// TestConcurrentContestDeletes verifies that only one of several racing
// deletes reports the record as deleted
func TestConcurrentContestDeletes(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewContestHandler(store, testutil.GetTestConfig())

	id := testutil.CreateTestContest(t, store, testutil.SampleContest())

	numClients := 8

	var deleted atomic.Int64
	var failures atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("DELETE", "/contest/"+id, nil, nil)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()
			handler.DeleteContest(w, req)

			if w.Code != http.StatusOK {
				failures.Add(1)
				return
			}
			var res models.DeleteResult
			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				failures.Add(1)
				return
			}
			deleted.Add(res.DeletedCount)
		}()
	}

	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("Expected no failed deletes, got %d", failures.Load())
	}
	if deleted.Load() != 1 {
		t.Errorf("Expected total deletedCount 1, got %d", deleted.Load())
	}
}

// TestConcurrentContestCreates verifies that parallel inserts each get a
// distinct identifier
func TestConcurrentContestCreates(t *testing.T) {
	store := testutil.SetupTestStore(t)
	handler := NewContestHandler(store, testutil.GetTestConfig())

	numClients := 10
	ids := make([]string, numClients)
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := map[string]any{"name": fmt.Sprintf("Contest %d", idx), "category": "Art"}
			w := httptest.NewRecorder()
			handler.CreateContest(w, testutil.MakeRequest("POST", "/contest", body, nil))

			var resp models.InsertResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err == nil && resp.InsertedID != nil {
				ids[idx] = *resp.InsertedID
			}
		}(i)
	}

	wg.Wait()

	seen := make(map[string]bool)
	for i, id := range ids {
		if id == "" {
			t.Errorf("Create %d returned no id", i)
			continue
		}
		if seen[id] {
			t.Errorf("Duplicate id %s", id)
		}
		seen[id] = true
	}

	contests, err := store.ListContests(context.Background(), "Art")
	if err != nil {
		t.Fatalf("Failed to list contests: %v", err)
	}
	if len(contests) != numClients {
		t.Errorf("Expected %d contests, got %d", numClients, len(contests))
	}
}
