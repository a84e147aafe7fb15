// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danielhkuo/contesthub/cliparse"
	"github.com/danielhkuo/contesthub/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid identifier")
)

// UserStore is the User Directory
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, email string) (models.User, error)
	// CreateUser inserts u unless a user with the same email exists.
	// created is false (and id empty) when the email was already taken.
	CreateUser(ctx context.Context, u models.User) (id string, created bool, err error)
	UpdateUserRole(ctx context.Context, email, role string) (models.User, error)
}

// ContestStore is the Contest Catalog
type ContestStore interface {
	ListContests(ctx context.Context, category string) ([]models.Contest, error)
	GetContest(ctx context.Context, id string) (models.Contest, error)
	CreateContest(ctx context.Context, c models.Contest) (string, error)
	UpdateContest(ctx context.Context, id string, fields models.ContestFields) (models.UpdateResult, error)
	DeleteContest(ctx context.Context, id string) (models.DeleteResult, error)
}

type Store interface {
	UserStore
	ContestStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewID returns a fresh record identifier. All backends use ObjectID hex
// strings so identifiers look the same regardless of the store.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed record identifier
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// CanonicalID returns id in the lowercase form stores keep, so ids that
// differ only in hex case name the same record
func CanonicalID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return oid.Hex(), nil
}

// fieldValue is one contest column present in a patch
type fieldValue struct {
	column string
	value  any
}

// presentFields lists the columns set in f, in a fixed order
func presentFields(f models.ContestFields) []fieldValue {
	var out []fieldValue
	addString := func(column string, v *string) {
		if v != nil {
			out = append(out, fieldValue{column, *v})
		}
	}
	addFloat := func(column string, v *float64) {
		if v != nil {
			out = append(out, fieldValue{column, *v})
		}
	}

	addString("name", f.Name)
	addString("category", f.Category)
	addFloat("fee", f.Fee)
	addFloat("prize", f.Prize)
	addString("deadline", f.Deadline)
	addString("details", f.Details)
	addString("instruction", f.Instruction)
	addString("image", f.Image)
	return out
}

const connectTimeout = 10 * time.Second

// Open connects to the store selected by cfg and prepares its schema
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.DatabaseType {
	case cliparse.DatabaseMongo:
		return OpenMongo(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	case cliparse.DatabasePostgres:
		return OpenSQL(ctx, "postgres", cfg.DatabaseURL)
	case cliparse.DatabaseSQLite:
		return OpenSQL(ctx, "sqlite", cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}
