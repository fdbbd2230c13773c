// Package filestore persists rendered cover sheets on local disk and
// hands out the public URLs Airtable fetches attachments from.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes documents under Dir and maps them to URLs below
// BaseURL. The web server serves Dir at /files/.
type Store struct {
	dir     string
	baseURL string
}

// New creates a store rooted at dir. BaseURL is the externally
// reachable server URL, e.g. https://portal.example.com.
func New(dir, baseURL string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating file store directory %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory documents are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a uniquified variant of filename and
// returns the stored name and its public URL. The uuid suffix keeps
// resubmissions for the same property from overwriting each other.
func (s *Store) Save(data []byte, filename string) (name, url string, err error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	name = fmt.Sprintf("%s-%s%s", strings.TrimSuffix(base, ext), uuid.NewString()[:8], ext)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", path, err)
	}

	return name, s.URL(name), nil
}

// URL returns the public URL for a stored file name.
func (s *Store) URL(name string) string {
	return fmt.Sprintf("%s/files/%s", s.baseURL, name)
}
