// Package client provides an HTTP client for the intake portal API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mreilly/tc-intake/internal/form"
	"github.com/mreilly/tc-intake/internal/journal"
)

// Client is an HTTP client for the intake portal API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks the server's health endpoint.
func (c *Client) Health() error {
	var resp map[string]string
	if err := c.get("/health", &resp); err != nil {
		return err
	}
	if resp["status"] != "ok" {
		return fmt.Errorf("unexpected health status: %q", resp["status"])
	}
	return nil
}

// ListSubmissions returns journal entries, newest first.
// limit 0 means all.
func (c *Client) ListSubmissions(limit int) ([]*journal.Entry, error) {
	path := "/api/submissions"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var entries []*journal.Entry
	if err := c.get(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetSubmission returns one journal entry.
func (c *Client) GetSubmission(id int64) (*journal.Entry, error) {
	var entry journal.Entry
	if err := c.get(fmt.Sprintf("/api/submissions/%d", id), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// RenderRequest asks the server to generate a cover sheet PDF for
// the given form data, optionally emailing it.
type RenderRequest struct {
	Form         form.TransactionForm `json:"form"`
	Filename     string               `json:"filename,omitempty"`
	SendEmail    bool                 `json:"sendEmail"`
	EmailTo      string               `json:"emailTo,omitempty"`
	EmailSubject string               `json:"emailSubject,omitempty"`
}

// RenderResponse is the document-generation result.
type RenderResponse struct {
	Success   bool   `json:"success"`
	PDFPath   string `json:"pdfPath,omitempty"`
	EmailSent bool   `json:"emailSent"`
	Error     string `json:"error,omitempty"`
}

// Render generates a cover sheet on the server.
func (c *Client) Render(req RenderRequest) (*RenderResponse, error) {
	var resp RenderResponse
	if err := c.post("/api/render", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

// post performs a POST request with a JSON body.
func (c *Client) post(path string, body, out interface{}) error {
	return c.do(http.MethodPost, path, body, out)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
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
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
