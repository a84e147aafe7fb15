// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db is the persistence layer: the User Directory and Contest Catalog.

# Store

Store combines UserStore and ContestStore. Open picks a backend from the
configuration:

	store, err := db.Open(ctx, cfg)
	defer store.Close(ctx)

Backends:

  - mongo: MongoStore, collections "users" and "contest"
  - postgres: SQLStore over github.com/lib/pq
  - sqlite: SQLStore over modernc.org/sqlite (also used by tests)

# Identifiers

Records are keyed by ObjectID hex strings on every backend:

	id := db.NewID()
	ok := db.ValidID(id)

Operations taking an id return ErrInvalidID for malformed values and
ErrNotFound when nothing matches.

# Users

Email is unique at the storage level (unique index in Mongo, UNIQUE column
in SQL). CreateUser reports created=false instead of an error when the
email is taken, so concurrent sign-ins cannot create duplicates.

# Contests

UpdateContest writes only the fields present in models.ContestFields and
returns matched/modified counts. DeleteContest returns the deleted count,
0 for unknown ids.

# Schema Creation

For SQL backends, CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
*/
package db
