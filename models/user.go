// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// User is a ContestHub account. Profile holds any extra fields the client
// sent; they are flattened into the JSON object next to the named fields.
type User struct {
	ID      string         `json:"_id,omitempty"`
	Email   string         `json:"email"`
	Name    string         `json:"name,omitempty"`
	Photo   string         `json:"photo,omitempty"`
	Role    string         `json:"role"`
	Profile map[string]any `json:"-"`
}

// IsAdmin reports whether the user holds the administrator role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var userKeys = map[string]bool{"_id": true, "email": true, "name": true, "photo": true, "role": true}

// MarshalJSON flattens Profile into the object. Named fields win on clashes.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Profile)+5)
	for k, v := range u.Profile {
		if !userKeys[k] {
			out[k] = v
		}
	}
	if u.ID != "" {
		out["_id"] = u.ID
	}
	out["email"] = u.Email
	if u.Name != "" {
		out["name"] = u.Name
	}
	if u.Photo != "" {
		out["photo"] = u.Photo
	}
	out["role"] = u.Role
	return json.Marshal(out)
}

// UnmarshalJSON collects unknown keys into Profile
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("user must be a JSON object")
	}

	*u = User{}
	fields := map[string]*string{
		"_id":   &u.ID,
		"email": &u.Email,
		"name":  &u.Name,
		"photo": &u.Photo,
		"role":  &u.Role,
	}
	for k, v := range raw {
		if dst, ok := fields[k]; ok {
			if string(v) == "null" {
				continue
			}
			if err := json.Unmarshal(v, dst); err != nil {
				return fmt.Errorf("field %s: %w", k, err)
			}
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		if u.Profile == nil {
			u.Profile = map[string]any{}
		}
		u.Profile[k] = val
	}
	return nil
}
