// Package rowstore is the client for the hosted row store that receives
// tracked user actions and submitted leads. It only ever inserts rows; nothing
// is read back. Every driver performs a single write per call with no retry,
// batching or cross-row transaction.
package rowstore

import (
	"context"
	"errors"
	"sort"

	"storytrain_landing/platform/apperr"
)

// Logical tables written by the landing page.
const (
	TableUserActions = "user_actions"
	TableUserLeads   = "user_leads"
)

const opInsert = "rowstore.insert"

// ErrNotConfigured is the cause of every failure from a store built without
// its endpoint or credentials.
var ErrNotConfigured = errors.New("row store is not configured")

// Row is one record keyed by column name. Values must be JSON-serializable;
// nil is written as NULL.
type Row map[string]any

// Inserter writes a single row into a table.
type Inserter interface {
	Insert(ctx context.Context, table string, row Row) error
}

// Store is a row store handle owned by the composition root.
type Store interface {
	Inserter
	Ping(ctx context.Context) error
	Close() error
}

var knownTables = map[string]bool{
	TableUserActions: true,
	TableUserLeads:   true,
}

// sortedColumns returns the row's columns in a stable order with matching values.
func sortedColumns(row Row) ([]string, []any) {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	values := make([]any, len(cols))
	for i, col := range cols {
		values[i] = row[col]
	}
	return cols, values
}

func checkTable(table string) error {
	if table == "" {
		return apperr.BadRequest("table name is required").WithOp(opInsert)
	}
	return nil
}

func checkKnownTable(table string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if !knownTables[table] {
		return apperr.BadRequest("unknown table " + table).WithOp(opInsert)
	}
	return nil
}

func upstream(message string, err error) error {
	if message == "" {
		message = err.Error()
	}
	return apperr.Wrap(apperr.KindUpstream, message, err).WithOp(opInsert)
}
