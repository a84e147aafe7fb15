// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ContestHub API server.

ContestHub lists creative contests. The server issues identity tokens,
keeps a directory of users with roles and serves contest CRUD.

# Starting the Server

Settings come from CLI flags, environment variables or a .env file:

	ACCESS_TOKEN_SECRET=... DB_USER=... DB_PASS=... DB_HOST=cluster.example.net go run .

Or against a local SQLite file:

	go run . -t sqlite -d contesthub.db -secret dev-secret

# Configuration

Required settings:

  - ACCESS_TOKEN_SECRET (-secret): HS256 signing key
  - DATABASE_URL (-d): required for postgres and sqlite; for mongo it is
    built from DB_USER, DB_PASS and DB_HOST when unset

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): mongo, postgres or sqlite (default: mongo)
  - DB_NAME (-db-name): Mongo database (default: contestHub)
  - TOKEN_TTL (-token-ttl): Token lifetime (default: 1h)
  - ENFORCE_ADMIN (-enforce-admin): Admin guard on writes (default: true)
  - ROLE_UPDATE_POLICY (-role-policy): self or admin (default: self)

# Architecture

  - handlers: HTTP request handlers (tokens, users, contests)
  - router: Route table using Go 1.22+ routing
  - middleware: Access guards, CORS, logging, JSON helpers
  - models: Request/response and record types
  - auth: JWT issuance and verification
  - db: Store interfaces with MongoDB and SQL backends
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
