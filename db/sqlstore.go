// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/contesthub/models"
)

// SQLStore keeps users and contests in Postgres or SQLite.
// Queries use $N placeholders, which both drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQL opens driver ("postgres" or "sqlite"), verifies the connection
// and creates the schema
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	// One connection: SQLite has a single writer and every :memory:
	// connection would otherwise see its own empty database
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	if err := CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn), nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// Users

const userColumns = "id, email, name, photo, role, profile"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var profile string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Photo, &u.Role, &profile); err != nil {
		return models.User{}, err
	}
	if profile != "" && profile != "{}" {
		if err := json.Unmarshal([]byte(profile), &u.Profile); err != nil {
			return models.User{}, fmt.Errorf("failed to decode profile of %s: %w", u.Email, err)
		}
	}
	return u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) GetUser(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, u models.User) (string, bool, error) {
	profile := []byte("{}")
	if len(u.Profile) > 0 {
		var err error
		if profile, err = json.Marshal(u.Profile); err != nil {
			return "", false, fmt.Errorf("failed to encode profile: %w", err)
		}
	}

	id := NewID()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, photo, role, profile)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`, id, u.Email, u.Name, u.Photo, u.Role, string(profile))
	if err != nil {
		return "", false, fmt.Errorf("failed to insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if n == 0 {
		return "", false, nil
	}
	return id, true, nil
}

func (s *SQLStore) UpdateUserRole(ctx context.Context, email, role string) (models.User, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = $1 WHERE email = $2", role, email)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to update role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetUser(ctx, email)
}

// Contests

const contestColumns = "id, name, category, fee, prize, deadline, details, instruction, image"

func scanContest(row rowScanner) (models.Contest, error) {
	var c models.Contest
	err := row.Scan(&c.ID, &c.Name, &c.Category, &c.Fee, &c.Prize,
		&c.Deadline, &c.Details, &c.Instruction, &c.Image)
	return c, err
}

func (s *SQLStore) ListContests(ctx context.Context, category string) ([]models.Contest, error) {
	query := "SELECT " + contestColumns + " FROM contest"
	var args []any
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, category)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contests: %w", err)
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contest: %w", err)
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

func (s *SQLStore) GetContest(ctx context.Context, id string) (models.Contest, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return models.Contest{}, err
	}

	c, err := scanContest(s.db.QueryRowContext(ctx, "SELECT "+contestColumns+" FROM contest WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contest{}, ErrNotFound
	}
	if err != nil {
		return models.Contest{}, fmt.Errorf("failed to query contest: %w", err)
	}
	return c, nil
}

func (s *SQLStore) CreateContest(ctx context.Context, c models.Contest) (string, error) {
	id := NewID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contest (id, name, category, fee, prize, deadline, details, instruction, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, c.Name, c.Category, c.Fee, c.Prize, c.Deadline, c.Details, c.Instruction, c.Image)
	if err != nil {
		return "", fmt.Errorf("failed to insert contest: %w", err)
	}
	return id, nil
}

// UpdateContest writes only the columns present in fields, in a single
// statement, so concurrent patches to different fields do not overwrite each
// other. Rows whose values already match are left untouched and reported as
// matched but not modified.
func (s *SQLStore) UpdateContest(ctx context.Context, id string, fields models.ContestFields) (models.UpdateResult, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return models.UpdateResult{}, err
	}

	present := presentFields(fields)
	if len(present) == 0 {
		return models.UpdateResult{}, models.ErrEmptyPatch
	}

	sets := make([]string, 0, len(present))
	diffs := make([]string, 0, len(present))
	args := make([]any, 0, len(present)+1)
	for i, fv := range present {
		ph := "$" + strconv.Itoa(i+1)
		sets = append(sets, fv.column+" = "+ph)
		diffs = append(diffs, fv.column+" <> "+ph)
		args = append(args, fv.value)
	}
	args = append(args, id)

	query := "UPDATE contest SET " + strings.Join(sets, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" AND (" + strings.Join(diffs, " OR ") + ")"

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to update contest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to read update result: %w", err)
	}
	if n > 0 {
		return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}

	// Nothing written: either no such row or nothing to change
	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM contest WHERE id = $1", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UpdateResult{}, nil
	}
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to query contest: %w", err)
	}
	return models.UpdateResult{MatchedCount: 1}, nil
}

func (s *SQLStore) DeleteContest(ctx context.Context, id string) (models.DeleteResult, error) {
	id, err := CanonicalID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM contest WHERE id = $1", id)
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to delete contest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to read delete result: %w", err)
	}
	return models.DeleteResult{DeletedCount: n}, nil
}
