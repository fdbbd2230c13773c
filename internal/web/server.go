// Package web provides the HTTP API for the transaction intake portal.
package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/mreilly/tc-intake/internal/form"
	"github.com/mreilly/tc-intake/internal/journal"
	"github.com/mreilly/tc-intake/internal/logging"
	"github.com/mreilly/tc-intake/internal/submit"
	"github.com/mreilly/tc-intake/internal/validate"
)

// Server is the intake API HTTP server. Form sessions live in memory
// for the duration of one intake; only the journal and the external
// Airtable record survive a restart.
type Server struct {
	orchestrator *submit.Orchestrator
	journalRepo  *journal.Repository
	filesDir     string
	mux          *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*form.Session
}

// NewServer creates the API server. journalRepo may be nil when
// running without a local database (render-only tooling).
func NewServer(orch *submit.Orchestrator, journalRepo *journal.Repository, filesDir string) *Server {
	s := &Server{
		orchestrator: orch,
		journalRepo:  journalRepo,
		filesDir:     filesDir,
		mux:          http.NewServeMux(),
		sessions:     make(map[string]*form.Session),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/sessions", s.handleSessions)
	s.mux.HandleFunc("/api/sessions/", s.handleSessionRoute)
	s.mux.HandleFunc("/api/submissions", s.handleSubmissions)
	s.mux.HandleFunc("/api/submissions/", s.handleSubmissionRoute)
	s.mux.HandleFunc("/api/render", s.handleRender)
	if filesDir != "" {
		s.mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(filesDir))))
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with request logging.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting intake API on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, logging.RequestLogger(s))
}

// newSession registers a fresh form session.
func (s *Server) newSession() *form.Session {
	sess := form.NewSession(validate.Step)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// session looks up a session by id.
func (s *Server) session(id string) (*form.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// dropSession removes a session after a completed submission.
func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
