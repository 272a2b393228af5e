package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Compilation is one recorded compile of an RQL expression.
type Compilation struct {
	ID          string
	Fingerprint string
	RQL         string
	Entity      string
	Scope       string
	Locale      string
	Body        string
	Seq         int64
}

// ErrInvalidCompilation is returned when a compilation is missing a
// required field.
var ErrInvalidCompilation = errors.New("invalid compilation")

// WriteCompilation records c and returns it with its assigned ID and
// sequence number. Any ID or Seq already set on c is ignored.
//
// The sequence is allocated inside the insert transaction so concurrent
// writers never share a value.
func (s *Store) WriteCompilation(ctx context.Context, c Compilation) (Compilation, error) {
	if c.Fingerprint == "" || c.Entity == "" || c.Body == "" {
		return Compilation{}, fmt.Errorf("%w: fingerprint, entity and body are required", ErrInvalidCompilation)
	}
	if c.Scope == "" {
		c.Scope = "detail"
	}
	if c.Locale == "" {
		c.Locale = "en"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, fmt.Errorf("begin write compilation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(created_seq) FROM compilations`).Scan(&last); err != nil {
		return Compilation{}, fmt.Errorf("next seq: %w", err)
	}

	c.ID = uuid.NewString()
	c.Seq = last.Int64 + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compilations (id, fingerprint, rql, entity, scope, locale, body, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Fingerprint, c.RQL, c.Entity, c.Scope, c.Locale, c.Body, c.Seq)
	if err != nil {
		return Compilation{}, fmt.Errorf("insert compilation %s: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, fmt.Errorf("commit compilation %s: %w", c.ID, err)
	}
	return c, nil
}
