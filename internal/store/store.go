// Package store provides PostgreSQL storage for extracted report tables.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a3tai/huntreport/internal/table"
)

// Sink writes tables into PostgreSQL
type Sink struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*Sink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Sink{pool: pool}, nil
}

// Close closes the connection pool
func (s *Sink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureTable creates the destination table when it does not exist yet. Column
// types follow the Go types of the first row; an empty table gets text columns.
func (s *Sink) EnsureTable(ctx context.Context, t *table.Table) error {
	if _, err := s.pool.Exec(ctx, CreateTableSQL(t)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}
	return nil
}

// Write appends every row of t with COPY and returns the number of rows stored
func (s *Sink) Write(ctx context.Context, t *table.Table) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if err := s.EnsureTable(ctx, t); err != nil {
		return 0, err
	}

	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{t.Name},
		t.Columns,
		pgx.CopyFromRows(t.Rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", t.Name, err)
	}
	return n, nil
}

// Replace deletes the rows matching column = value and writes t in one transaction.
// It is used to reload a single report year without duplicating rows.
func (s *Sink) Replace(ctx context.Context, t *table.Table, column string, value any) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if err := s.EnsureTable(ctx, t); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pgx.Identifier{t.Name}.Sanitize(), pgx.Identifier{column}.Sanitize())
	if _, err := tx.Exec(ctx, del, value); err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", t.Name, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{t.Name}, t.Columns, pgx.CopyFromRows(t.Rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", t.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	return n, nil
}

// CreateTableSQL renders the CREATE TABLE statement for t
func CreateTableSQL(t *table.Table) string {
	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		var sample any
		if len(t.Rows) > 0 && i < len(t.Rows[0]) {
			sample = t.Rows[0][i]
		}
		defs[i] = pgx.Identifier{col}.Sanitize() + " " + sqlType(sample)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{t.Name}.Sanitize(), strings.Join(defs, ", "))
}

func sqlType(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return "integer"
	case bool:
		return "boolean"
	default:
		return "text"
	}
}
