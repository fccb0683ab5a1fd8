// Package server provides a REST API over the skill corpus. It exposes
// document listings, rendered bodies, index-backed search, and on-demand
// lint runs for editor and CI integrations.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
	"github.com/SkillDoAI/skilldo/pkg/index"
	"github.com/SkillDoAI/skilldo/pkg/lint"
	"github.com/SkillDoAI/skilldo/pkg/logger"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// Server serves the skill corpus over HTTP
type Server struct {
	router    *mux.Router
	discovery *corpus.Discovery
	store     *index.Store
	config    *ServerConfig
	server    *http.Server
	renderer  goldmark.Markdown
}

// ServerConfig holds the configuration for the corpus server
type ServerConfig struct {
	Host   string
	Port   int
	DBPath string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.DBPath == "" {
		return errors.New("database path cannot be empty")
	}

	return nil
}

// NewServer creates a corpus server. The search index is rebuilt from the
// discovered documents so /api/search reflects the corpus on disk.
func NewServer(ctx context.Context, config *ServerConfig, discovery *corpus.Discovery) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	store, err := index.NewStore(ctx, config.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open index store")
	}

	skills, err := discovery.DiscoverSkills()
	if err != nil {
		store.Close()
		return nil, errors.Wrap(err, "failed to discover skills")
	}
	if err := store.Rebuild(ctx, skills); err != nil {
		store.Close()
		return nil, errors.Wrap(err, "failed to rebuild index")
	}

	s := &Server{
		router:    mux.NewRouter(),
		discovery: discovery,
		store:     store,
		config:    config,
		renderer:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills/{name}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/skills/{name}/html", s.handleGetSkillHTML).Methods("GET")
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/lint", s.handleLint).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    duration,
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SkillSummary is the list-endpoint view of a document
type SkillSummary struct {
	skill.Metadata
	Path string `json:"path"`
}

// SkillResponse is the full-document view
type SkillResponse struct {
	skill.Metadata
	Path     string   `json:"path"`
	Sections []string `json:"sections"`
	Body     string   `json:"body"`
}

// handleListSkills handles GET /api/skills
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.discovery.DiscoverSkills()
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to discover skills", err)
		return
	}

	summaries := make([]SkillSummary, 0, len(skills))
	for _, sk := range skills {
		summaries = append(summaries, SkillSummary{Metadata: sk.Metadata, Path: sk.Path})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})

	s.writeJSONResponse(w, summaries)
}

// handleGetSkill handles GET /api/skills/{name}
func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	sk, err := s.discovery.GetSkill(name)
	if err != nil {
		s.writeErrorResponse(w, http.StatusNotFound, fmt.Sprintf("skill %q not found", name), err)
		return
	}

	sections := make([]string, 0, len(sk.Sections))
	for _, section := range sk.Sections {
		sections = append(sections, section.Title)
	}

	s.writeJSONResponse(w, SkillResponse{
		Metadata: sk.Metadata,
		Path:     sk.Path,
		Sections: sections,
		Body:     sk.Body,
	})
}

// handleGetSkillHTML handles GET /api/skills/{name}/html
func (s *Server) handleGetSkillHTML(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	sk, err := s.discovery.GetSkill(name)
	if err != nil {
		s.writeErrorResponse(w, http.StatusNotFound, fmt.Sprintf("skill %q not found", name), err)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Convert([]byte(sk.Body), &buf); err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "failed to render document", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleSearch handles GET /api/search?q=
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}

	records, err := s.store.Search(r.Context(), query)
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "search failed", err)
		return
	}
	if records == nil {
		records = []index.Record{}
	}

	s.writeJSONResponse(w, records)
}

// handleLint handles GET /api/lint
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	report, err := lint.New(s.discovery).Run(r.Context())
	if err != nil {
		s.writeErrorResponse(w, http.StatusInternalServerError, "lint run failed", err)
		return
	}

	if err := s.store.RecordLintRun(r.Context(), report); err != nil {
		logger.G(r.Context()).WithError(err).Warn("failed to record lint run")
	}

	s.writeJSONResponse(w, report)
}

// handleHealthz handles GET /healthz
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, map[string]string{"status": "ok"})
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a JSON error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.G(context.TODO()).WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Handler returns the configured router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the corpus server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:    address,
		Handler: s.router,
	}

	presenter.Info(fmt.Sprintf("Starting corpus server on http://%s", address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.G(ctx).WithError(err).Error("Corpus server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop forcefully stops the server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Close releases the index store
func (s *Server) Close() error {
	return s.store.Close()
}
