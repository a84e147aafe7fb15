// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file can be loaded into the environment first:

	_ = cliparse.LoadEnvFile()

Variables already present in the environment win over the file.

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseType: mongo, postgres or sqlite (default: mongo)
  - DatabaseURL: Connection string (required for postgres and sqlite)
  - DatabaseName: Mongo database name (default: contestHub)
  - TokenSecret: HMAC secret for identity tokens (required)
  - TokenTTL: Token lifetime (default: 1h)
  - EnforceAdmin: Guard contest mutations and user listing (default: true)
  - RolePolicy: self or admin (default: self)

# CLI Flags

	-p               Server port
	-t               Database type
	-d               Database URL
	-db-name         Database name
	-secret          Token secret
	-token-ttl       Token lifetime
	-enforce-admin   Admin guard on mutating routes
	-role-policy     Role update policy

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_TYPE       → -t
	DATABASE_URL        → -d
	DB_NAME             → -db-name
	ACCESS_TOKEN_SECRET → -secret
	TOKEN_TTL           → -token-ttl
	ENFORCE_ADMIN       → -enforce-admin
	ROLE_UPDATE_POLICY  → -role-policy

When DATABASE_URL is empty and the type is mongo, the URL is built from
DB_USER, DB_PASS and DB_HOST (default localhost:27017).

CLI flags take precedence over environment variables.
*/
package cliparse
