// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ContestHub API.

# Handler Types

Each handler is a struct built by a constructor with its dependencies:

  - TokenHandler: identity token issuance (POST /jwt)
  - UserHandler: user directory (list, create-if-absent, role update)
  - ContestHandler: contest catalog CRUD

	users := handlers.NewUserHandler(store, cfg)

Handlers depend on the narrow db.UserStore and db.ContestStore interfaces, so
any backend (MongoDB, Postgres, SQLite) can serve them.

# Errors

Store sentinels map onto statuses: db.ErrInvalidID is 400, db.ErrNotFound is
404, anything else is logged and returned as 500. Request bodies for contest
writes are decoded strictly; unknown fields are rejected with 400.

# Authentication

Handlers never parse tokens themselves. Guarded routes read the caller from
the request context (middleware.IdentityFrom), which RequireAuth fills in.
*/
package handlers
