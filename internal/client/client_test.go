package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mreilly/tc-intake/internal/form"
)

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	if err := New(server.URL).Health(); err != nil {
		t.Errorf("health: %v", err)
	}
}

func TestHealthBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(`{"status":"degraded"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	if err := New(server.URL).Health(); err == nil {
		t.Error("expected error for non-ok status")
	}
}

func TestListSubmissions(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if _, err := w.Write([]byte(`[{"id":2,"outcome":"complete"},{"id":1,"outcome":"partial"}]`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	entries, err := New(server.URL).ListSubmissions(5)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if gotQuery != "limit=5" {
		t.Errorf("query = %q", gotQuery)
	}
	if len(entries) != 2 || entries[0].ID != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestGetSubmission(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/submissions/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if _, err := w.Write([]byte(`{"id":7,"propertyAddress":"123 Maple Street"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	entry, err := New(server.URL).GetSubmission(7)
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if entry.ID != 7 || entry.PropertyAddress != "123 Maple Street" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestServerErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"error":"submission 99 not found"}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	_, err := New(server.URL).GetSubmission(99)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "submission 99 not found") {
		t.Errorf("error should carry the server message: %v", err)
	}
}

func TestRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/render" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if _, err := w.Write([]byte(`{"success":true,"pdfPath":"http://x/files/cover-sheet.pdf","emailSent":false}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	resp, err := New(server.URL).Render(RenderRequest{Form: form.NewTransactionForm()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !resp.Success || resp.PDFPath == "" {
		t.Errorf("response = %+v", resp)
	}
}
