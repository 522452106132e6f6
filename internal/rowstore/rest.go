package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const restPathPrefix = "/rest/v1/"

// StoreError is a write the row store API rejected.
type StoreError struct {
	Table   string `json:"-"`
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("insert into %s: %d %s: %s", e.Table, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("insert into %s: %d: %s", e.Table, e.Status, e.Message)
}

// RESTStore talks to a PostgREST-compatible row store API using a public
// anonymous key. Server-side policies decide what anonymous writes may do.
type RESTStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRESTStore creates a client for the API at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewRESTStore(baseURL, apiKey string, timeout time.Duration) *RESTStore {
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Insert posts row to the table endpoint.
func (s *RESTStore) Insert(ctx context.Context, table string, row Row) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if row == nil {
		row = Row{}
	}

	body, err := json.Marshal(row)
	if err != nil {
		return upstream("row is not serializable", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+restPathPrefix+url.PathEscape(table), bytes.NewReader(body))
	if err != nil {
		return upstream("", err)
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return upstream("", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeStoreError(table, resp)
}

// Ping checks that the API answers with the configured key.
func (s *RESTStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+restPathPrefix, nil)
	if err != nil {
		return err
	}
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("row store ping: %s", resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (s *RESTStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *RESTStore) authorize(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

func decodeStoreError(table string, resp *http.Response) error {
	storeErr := &StoreError{Table: table, Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, storeErr); err != nil {
			storeErr.Message = strings.TrimSpace(string(raw))
		}
	}
	if storeErr.Message == "" {
		storeErr.Message = http.StatusText(resp.StatusCode)
	}
	return upstream(storeErr.Message, storeErr)
}
