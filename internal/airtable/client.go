// Package airtable submits transaction records to the Airtable REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.airtable.com"

// Config holds Airtable connection settings.
type Config struct {
	APIKey          string
	BaseID          string
	Table           string
	AttachmentField string
}

// IsConfigured returns true if the credentials needed to create
// records are present.
func (c Config) IsConfigured() bool {
	return c.APIKey != "" && c.BaseID != "" && c.Table != ""
}

// Client talks to the Airtable REST API for one base and table.
type Client struct {
	config     Config
	httpClient *http.Client

	// Overridable URL for testing.
	baseURL string
}

// NewClient creates an Airtable client. Returns an error when the
// configuration is incomplete so callers fail fast instead of
// discovering missing credentials mid-submission.
func NewClient(cfg Config) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("airtable is not configured (TCI_AIRTABLE_API_KEY, TCI_AIRTABLE_BASE_ID, TCI_AIRTABLE_TABLE)")
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}, nil
}

// Record is an Airtable record as returned by the API.
type Record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

type recordRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

// Attachment is one entry in an Airtable attachment field.
type Attachment struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// CreateRecord creates a record with the given fields and returns
// the new record id.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]interface{}) (string, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(), recordRequest{Fields: fields}, &rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		return "", fmt.Errorf("airtable returned no record id")
	}
	return rec.ID, nil
}

// AttachDocument sets the configured attachment field on a record to
// a single document. Airtable fetches the document from the URL, so
// it must be publicly reachable.
func (c *Client) AttachDocument(ctx context.Context, recordID, url, filename string) error {
	fields := map[string]interface{}{
		c.config.AttachmentField: []Attachment{{URL: url, Filename: filename}},
	}
	return c.do(ctx, http.MethodPatch, c.tableURL()+"/"+recordID, recordRequest{Fields: fields}, nil)
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.config.BaseID, c.config.Table)
}

func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close body: %v)", err, closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("airtable %s %s: status %d: %s", method, url, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
