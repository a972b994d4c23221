package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"registrar/internal/model"
)

var (
	ErrNotConfigured = errors.New("supabase url or key is not configured")
	ErrNoRowReturned = errors.New("insert returned no rows")
)

const DefaultTable = "users"

// Client inserts registrations into a Supabase table through its REST API.
type Client struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
	log        *zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTable(table string) Option {
	return func(c *Client) {
		c.table = table
	}
}

func NewClient(baseURL, apiKey string, log *zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		table:      DefaultTable,
		httpClient: &http.Client{},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// apiError is the error body returned by PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

type insertedRow struct {
	ID     json.RawMessage `json:"id"`
	Status string          `json:"status"`
}

// InsertUser inserts reg into the users table and returns it with the id
// assigned by the database.
func (c *Client) InsertUser(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal([]*model.Registration{reg})
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error inserting into %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, errors.New(apiErr.Message)
		}
		return nil, fmt.Errorf("error from Supabase API (status %d): %s", resp.StatusCode, string(body))
	}

	var rows []insertedRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRowReturned
	}

	stored := *reg
	stored.ID = rowID(rows[0].ID)
	if rows[0].Status != "" {
		stored.Status = rows[0].Status
	}

	if c.log != nil {
		c.log.Debug().Str("registration_id", stored.ID).Str("table", c.table).Msg("row inserted into Supabase")
	}
	return &stored, nil
}

// rowID renders the id column as text. Tables keyed by bigint return a JSON
// number, tables keyed by uuid return a JSON string.
func rowID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
