// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the SQL backends.
// Safe to call multiple times - uses IF NOT EXISTS.
// Statements run one at a time so the same schema works on SQLite.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	// Users; email uniqueness backs idempotent creation
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT '',
    role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    profile TEXT NOT NULL DEFAULT '{}'
)`,

	// Contests
	`CREATE TABLE IF NOT EXISTS contest (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    fee DOUBLE PRECISION NOT NULL DEFAULT 0,
    prize DOUBLE PRECISION NOT NULL DEFAULT 0,
    deadline TEXT NOT NULL DEFAULT '',
    details TEXT NOT NULL DEFAULT '',
    instruction TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT ''
)`,

	`CREATE INDEX IF NOT EXISTS idx_contest_category ON contest(category)`,
}
