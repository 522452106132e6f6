package rowstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore writes rows straight into a Postgres database whose schema
// comes from the embedded migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. The store owns the pool from here on.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert writes row into table. Map and slice values land in JSONB columns.
func (s *PostgresStore) Insert(ctx context.Context, table string, row Row) error {
	if err := checkKnownTable(table); err != nil {
		return err
	}

	query, args := buildPostgresInsert(table, row)
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return upstream(pgErr.Message, err)
		}
		return upstream("", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func buildPostgresInsert(table string, row Row) (string, []any) {
	cols, values := sortedColumns(row)
	target := pgx.Identifier{table}.Sanitize()
	if len(cols) == 0 {
		return "INSERT INTO " + target + " DEFAULT VALUES", nil
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pgx.Identifier{col}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		target, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return query, values
}
