package rowstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"storytrain_landing/platform/apperr"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "rows.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreInsertAction(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	err := store.Insert(ctx, TableUserActions, Row{
		"session_id":  "s-1",
		"action_type": "scroll_depth",
		"details":     map[string]any{"percentage": 50},
	})
	if err != nil {
		t.Fatalf("expected insert to succeed, got %v", err)
	}

	var sessionID, actionType, details string
	row := store.DB().QueryRowContext(ctx, `SELECT session_id, action_type, details FROM user_actions`)
	if err := row.Scan(&sessionID, &actionType, &details); err != nil {
		t.Fatalf("failed to read back action: %v", err)
	}
	if sessionID != "s-1" || actionType != "scroll_depth" {
		t.Fatalf("unexpected row %s/%s", sessionID, actionType)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(details), &decoded); err != nil {
		t.Fatalf("details is not JSON: %v", err)
	}
	if decoded["percentage"] != float64(50) {
		t.Fatalf("expected percentage 50, got %v", decoded["percentage"])
	}
}

func TestSQLiteStoreInsertLeadWithNullPhone(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if err := store.Insert(ctx, TableUserLeads, Row{"name": "Alice", "email": "alice@example.com", "phone": nil}); err != nil {
		t.Fatalf("expected insert to succeed, got %v", err)
	}

	var nullPhones int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM user_leads WHERE phone IS NULL`).Scan(&nullPhones); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if nullPhones != 1 {
		t.Fatalf("expected 1 lead with NULL phone, got %d", nullPhones)
	}
}

func TestSQLiteStoreRejectsUnknownTable(t *testing.T) {
	store := openTestSQLite(t)

	err := store.Insert(context.Background(), "users", Row{"name": "x"})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown table, got %v", err)
	}
}

func TestSQLiteStoreConstraintViolationIsUpstream(t *testing.T) {
	store := openTestSQLite(t)

	// name is NOT NULL
	err := store.Insert(context.Background(), TableUserLeads, Row{"email": "alice@example.com"})
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestBuildSQLiteInsertEncodesJSON(t *testing.T) {
	query, args, err := buildSQLiteInsert(TableUserActions, Row{
		"action_type": "page_view",
		"details":     map[string]any{"path": "/"},
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	want := `INSERT INTO "user_actions" ("action_type", "details") VALUES (?, json(?))`
	if query != want {
		t.Fatalf("expected %s, got %s", want, query)
	}
	if args[1] != `{"path":"/"}` {
		t.Fatalf("expected JSON-encoded details, got %v", args[1])
	}
}
