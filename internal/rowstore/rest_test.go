package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storytrain_landing/platform/apperr"
)

func TestRESTStoreInsertSendsRow(t *testing.T) {
	var gotPath, gotKey, gotAuth, gotPrefer string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("invalid JSON body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL+"/", "anon-key", time.Second)
	err := store.Insert(context.Background(), TableUserLeads, Row{
		"name":  "Alice",
		"email": "alice@example.com",
		"phone": nil,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotPath != "/rest/v1/user_leads" {
		t.Fatalf("expected path /rest/v1/user_leads, got %s", gotPath)
	}
	if gotKey != "anon-key" {
		t.Fatalf("expected apikey header anon-key, got %q", gotKey)
	}
	if gotAuth != "Bearer anon-key" {
		t.Fatalf("expected bearer authorization, got %q", gotAuth)
	}
	if gotPrefer != "return=minimal" {
		t.Fatalf("expected Prefer return=minimal, got %q", gotPrefer)
	}
	if gotBody["name"] != "Alice" || gotBody["email"] != "alice@example.com" {
		t.Fatalf("unexpected body %v", gotBody)
	}
	phone, present := gotBody["phone"]
	if !present || phone != nil {
		t.Fatalf("expected explicit null phone, got %v (present=%v)", phone, present)
	}
}

func TestRESTStoreInsertDecodesStoreError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"42501","details":null,"hint":null,"message":"new row violates row-level security policy for table \"user_leads\""}`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, "anon-key", time.Second)
	err := store.Insert(context.Background(), TableUserLeads, Row{"name": "Alice"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", apperr.GetKind(err))
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError in chain, got %T", err)
	}
	if storeErr.Status != http.StatusUnauthorized || storeErr.Code != "42501" {
		t.Fatalf("unexpected store error %+v", storeErr)
	}
	if !strings.Contains(apperr.Message(err), "row-level security") {
		t.Fatalf("expected store message to surface, got %q", apperr.Message(err))
	}
}

func TestRESTStoreInsertPlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRESTStore(srv.URL, "k", time.Second).Insert(context.Background(), TableUserActions, Row{})
	if apperr.Message(err) != "upstream exploded" {
		t.Fatalf("expected raw body as message, got %q", apperr.Message(err))
	}
}

func TestRESTStoreInsertNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewRESTStore(url, "k", time.Second).Insert(context.Background(), TableUserActions, Row{"action_type": "click"})
	if err == nil {
		t.Fatal("expected network error")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("expected upstream kind, got %v", apperr.GetKind(err))
	}
	if apperr.Message(err) == "" {
		t.Fatal("expected a non-empty message for network errors")
	}
}

func TestRESTStoreInsertRespectsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := NewRESTStore(srv.URL, "k", 50*time.Millisecond).Insert(context.Background(), TableUserActions, Row{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("expected insert to give up after the client timeout")
	}
}

func TestRESTStoreInsertRequiresTable(t *testing.T) {
	err := NewRESTStore("http://127.0.0.1:1", "k", time.Second).Insert(context.Background(), "", Row{})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for empty table, got %v", err)
	}
}

func TestUnconfiguredStoreAlwaysFails(t *testing.T) {
	store := NewUnconfigured("ROWSTORE_URL", "ROWSTORE_ANON_KEY")

	err := store.Insert(context.Background(), TableUserActions, Row{"action_type": "page_view"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable kind, got %v", apperr.GetKind(err))
	}
	if apperr.Message(err) != "row store is not configured" {
		t.Fatalf("unexpected message %q", apperr.Message(err))
	}
	if err := store.Ping(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ping to fail with ErrNotConfigured, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
}
