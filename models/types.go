// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Accepted deadline layouts
var DeadlineLayouts = []string{"2006-01-02", time.RFC3339}

// Request types

type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type UpdateRoleRequest struct {
	NewRole string `json:"newRole"`
}

// ContestFields is the body of POST /contest and PATCH /contest/{id}.
// Nil fields were absent from the request.
type ContestFields struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Fee         *float64 `json:"fee"`
	Prize       *float64 `json:"prize"`
	Deadline    *string  `json:"deadline"`
	Details     *string  `json:"details"`
	Instruction *string  `json:"instruction"`
	Image       *string  `json:"image"`
}

// Response types

type TokenResponse struct {
	Token string `json:"token"`
}

// InsertResponse mirrors the store's insert acknowledgment.
// InsertedID is null when nothing was written.
type InsertResponse struct {
	InsertedID *string `json:"insertedId"`
	Message    string  `json:"message,omitempty"`
}

type UpdateRoleResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// Domain types

type Contest struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Fee         float64 `json:"fee"`
	Prize       float64 `json:"prize"`
	Deadline    string  `json:"deadline"`
	Details     string  `json:"details"`
	Instruction string  `json:"instruction"`
	Image       string  `json:"image"`
}

// Validation errors for contest payloads
var (
	ErrNameRequired    = errors.New("name is required")
	ErrEmptyPatch      = errors.New("at least one field is required")
	ErrNegativeAmount  = errors.New("fee and prize must not be negative")
	ErrInvalidDeadline = errors.New("deadline must be YYYY-MM-DD or RFC 3339")
)

// ValidateCreate checks a payload for POST /contest
func (f ContestFields) ValidateCreate() error {
	if f.Name == nil || *f.Name == "" {
		return ErrNameRequired
	}
	return f.validateValues()
}

// ValidatePatch checks a payload for PATCH /contest/{id}
func (f ContestFields) ValidatePatch() error {
	if f.IsEmpty() {
		return ErrEmptyPatch
	}
	if f.Name != nil && *f.Name == "" {
		return ErrNameRequired
	}
	return f.validateValues()
}

func (f ContestFields) validateValues() error {
	if (f.Fee != nil && *f.Fee < 0) || (f.Prize != nil && *f.Prize < 0) {
		return ErrNegativeAmount
	}
	if f.Deadline != nil && *f.Deadline != "" {
		if !validDeadline(*f.Deadline) {
			return ErrInvalidDeadline
		}
	}
	return nil
}

func validDeadline(s string) bool {
	for _, layout := range DeadlineLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no field was supplied
func (f ContestFields) IsEmpty() bool {
	return f.Name == nil && f.Category == nil && f.Fee == nil && f.Prize == nil &&
		f.Deadline == nil && f.Details == nil && f.Instruction == nil && f.Image == nil
}

// Apply writes the supplied fields onto c and reports whether any value changed
func (f ContestFields) Apply(c *Contest) bool {
	changed := false
	setString := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}

	setString(&c.Name, f.Name)
	setString(&c.Category, f.Category)
	setFloat(&c.Fee, f.Fee)
	setFloat(&c.Prize, f.Prize)
	setString(&c.Deadline, f.Deadline)
	setString(&c.Details, f.Details)
	setString(&c.Instruction, f.Instruction)
	setString(&c.Image, f.Image)

	return changed
}

// Contest builds a new record from the payload; the ID is left empty
func (f ContestFields) Contest() Contest {
	var c Contest
	f.Apply(&c)
	return c
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
