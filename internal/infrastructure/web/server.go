// Package web serves the page session over HTTP.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/application/validation"
	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// SessionCookie names the cookie carrying the page session id.
const SessionCookie = "areacheck_session"

// DefaultMaxSessions bounds the live page sessions when Options leaves it unset.
const DefaultMaxSessions = 1000

// SessionFactory builds a fresh page session.
type SessionFactory func() (*app.Session, error)

// Options configures the server.
type Options struct {
	NewSession SessionFactory
	History    ports.HistoryRepository
	Form       domain.FormSettings
	Logger     ports.Logger

	// MaxSessions caps live sessions; the least recently used is evicted.
	MaxSessions int
}

// Server routes browser requests to per-visitor page sessions.
type Server struct {
	router     *chi.Mux
	templates  *template.Template
	newSession SessionFactory
	history    ports.HistoryRepository
	form       domain.FormSettings
	logger     ports.Logger
	sessions   *lru.Cache[string, *app.Session]
}

// NewServer parses the templates and wires routes.
func NewServer(opts Options) (*Server, error) {
	if opts.NewSession == nil || opts.History == nil || opts.Logger == nil {
		return nil, errors.New("web.Server dependencies not satisfied")
	}

	funcMap := template.FuncMap{
		"num":   validation.Canonical,
		"isSet": func(raw string, v float64) bool { return raw != "" && raw == validation.Canonical(v) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	limit := opts.MaxSessions
	if limit <= 0 {
		limit = DefaultMaxSessions
	}
	logger := opts.Logger
	sessions, err := lru.NewWithEvict(limit, func(id string, _ *app.Session) {
		logger.Debug("page session evicted", map[string]interface{}{"session": id})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	s := &Server{
		router:     chi.NewRouter(),
		templates:  templates,
		newSession: opts.NewSession,
		history:    opts.History,
		form:       opts.Form,
		logger:     opts.Logger,
		sessions:   sessions,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// NewHTTPServer wraps the handler with the server timeouts used by serve.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	static, _ := fs.Sub(embeddedFiles, "static")
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/submit", s.handleSubmit)
	s.router.Post("/radius", s.handleRadius)
	s.router.Post("/clear", s.handleClear)
	s.router.Get("/graph.svg", s.handleGraph)
	s.router.Get("/api/history", s.handleHistory)
	s.router.Get("/healthz", s.handleHealth)
}

// lookup returns the visitor's existing session.
func (s *Server) lookup(r *http.Request) (*app.Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

// session returns the visitor's session, creating it and setting the cookie
// on first contact. Only page and form routes create sessions.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*app.Session, error) {
	if sess, ok := s.lookup(r); ok {
		return sess, nil
	}

	sess, err := s.newSession()
	if err != nil {
		return nil, err
	}
	id := sess.Controller.Snapshot().SessionID
	s.sessions.Add(id, sess)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// SessionCount reports the number of live page sessions.
func (s *Server) SessionCount() int {
	return s.sessions.Len()
}
