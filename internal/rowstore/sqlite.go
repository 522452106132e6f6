package rowstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// SQLiteStore keeps rows in a local SQLite file. It serves development and
// single-host deployments that have no hosted row store.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures both tables exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS user_actions(
	  id          INTEGER PRIMARY KEY,
	  session_id  TEXT NOT NULL,
	  action_type TEXT NOT NULL,
	  details     TEXT NOT NULL DEFAULT '{}' CHECK (json_valid(details)),
	  created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	);
	CREATE INDEX IF NOT EXISTS idx_user_actions_session ON user_actions(session_id);
	CREATE INDEX IF NOT EXISTS idx_user_actions_type    ON user_actions(action_type);
	CREATE TABLE IF NOT EXISTS user_leads(
	  id         INTEGER PRIMARY KEY,
	  name       TEXT NOT NULL,
	  email      TEXT NOT NULL,
	  phone      TEXT,
	  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

// Insert writes row into table. Map and slice values are stored as JSON text.
func (s *SQLiteStore) Insert(ctx context.Context, table string, row Row) error {
	if err := checkKnownTable(table); err != nil {
		return err
	}

	query, args, err := buildSQLiteInsert(table, row)
	if err != nil {
		return upstream("row is not serializable", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return upstream("", err)
	}
	return nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the handle for inspection tooling and tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func buildSQLiteInsert(table string, row Row) (string, []any, error) {
	cols, values := sortedColumns(row)
	if len(cols) == 0 {
		return "INSERT INTO " + quoteIdent(table) + " DEFAULT VALUES", nil, nil
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = quoteIdent(col)
		placeholders[i] = "?"

		switch values[i].(type) {
		case map[string]any, map[string]string, []any, Row:
			encoded, err := json.Marshal(values[i])
			if err != nil {
				return "", nil, err
			}
			values[i] = string(encoded)
			placeholders[i] = "json(?)"
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return query, values, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
