// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - TokenRequest: email, name
  - UpdateRoleRequest: newRole
  - ContestFields: contest payload with optional (pointer) fields

ContestFields carries its own validation:

	if err := fields.ValidateCreate(); err != nil { ... }
	if err := fields.ValidatePatch(); err != nil { ... }

and applies a partial update onto a stored record:

	changed := fields.Apply(&contest)

# Response Types

  - TokenResponse: token
  - InsertResponse: insertedId, message
  - UpdateRoleResponse: message, user
  - UpdateResult: matchedCount, modifiedCount
  - DeleteResult: deletedCount
  - ErrorResponse: error, message

# Domain Types

  - User: account keyed by email, with role and free-form profile fields
  - Contest: a listed contest, identified by an opaque "_id"

User marshals its Profile map flat into the JSON object, so clients can
send arbitrary profile attributes and get them back unchanged.

# Constants

Roles:

	RoleUser  = "user"
	RoleAdmin = "admin"
*/
package models
