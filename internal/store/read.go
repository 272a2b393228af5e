package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no compilation matches the requested ID.
var ErrNotFound = errors.New("compilation not found")

const selectCompilation = `
	SELECT id, fingerprint, rql, entity, scope, locale, body, created_seq
	FROM compilations
`

// ReadCompilation returns the compilation with the given ID.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectCompilation+`WHERE id = ?`, id)
	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	return c, nil
}

// ListCompilations returns the most recent compilations, newest first.
// A limit of zero or less returns the whole history.
func (s *Store) ListCompilations(ctx context.Context, limit int) ([]Compilation, error) {
	query := selectCompilation + `ORDER BY created_seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list compilations: %w", err)
	}
	defer rows.Close()
	return scanCompilations(rows)
}

// FindByFingerprint returns every compilation of an expression with the
// given fingerprint, oldest first.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) ([]Compilation, error) {
	rows, err := s.db.QueryContext(ctx,
		selectCompilation+`WHERE fingerprint = ? ORDER BY created_seq ASC`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("find by fingerprint: %w", err)
	}
	defer rows.Close()
	return scanCompilations(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row scanner) (Compilation, error) {
	var c Compilation
	err := row.Scan(&c.ID, &c.Fingerprint, &c.RQL, &c.Entity, &c.Scope, &c.Locale, &c.Body, &c.Seq)
	return c, err
}

func scanCompilations(rows *sql.Rows) ([]Compilation, error) {
	var out []Compilation
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compilation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return out, nil
}
