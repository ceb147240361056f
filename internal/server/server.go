// Package server exposes an interpreted form over HTTP. Each browser session
// keeps its navigation state in a Store keyed by a cookie; every navigation
// request is routed through an interpreter.Session. Replacing the served form
// starts every session over at the first step.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/goliatone/go-stepform/pkg/interpreter"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/sequencer"
)

// Reloader fetches a fresh form configuration.
type Reloader func(ctx context.Context) (schema.FormConfig, error)

// Option configures a Server.
type Option func(*Server)

// WithStore sets the session store. Defaults to a MemoryStore.
func WithStore(store Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables /metrics and instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// WithInterpreter replaces the default interpreter.
func WithInterpreter(in *interpreter.Interpreter) Option {
	return func(s *Server) {
		if in != nil {
			s.interp = in
		}
	}
}

// WithBasePath mounts every route under path (e.g. "/forms/intake").
func WithBasePath(path string) Option {
	return func(s *Server) {
		s.basePath = strings.TrimRight(strings.TrimSpace(path), "/")
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name = strings.TrimSpace(name); name != "" {
			s.cookie = name
		}
	}
}

// WithRenderOptions sets the static part of the render options (title,
// stylesheets, theme). BasePath and Interactive are always set by the server.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(s *Server) {
		s.options = options
	}
}

// WithReloader enables POST /admin/reload.
func WithReloader(reload Reloader) Option {
	return func(s *Server) {
		s.reload = reload
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithSessionIDs replaces the session id generator.
func WithSessionIDs(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.newID = next
		}
	}
}

// Server serves one form configuration.
type Server struct {
	mu       sync.RWMutex
	cfg      schema.FormConfig
	revision string

	interp   *interpreter.Interpreter
	html     render.Renderer
	json     render.Renderer
	store    Store
	logger   *slog.Logger
	metrics  *Metrics
	options  render.RenderOptions
	reload   Reloader
	assets   fs.FS
	basePath string
	cookie   string
	newID    func() string
}

// New builds a Server. html renders pages and json renders /api/view.
func New(cfg schema.FormConfig, html, json render.Renderer, opts ...Option) (*Server, error) {
	if html == nil || json == nil {
		return nil, errors.New("server: html and json renderers are required")
	}
	s := &Server{
		cfg:      cfg,
		revision: uuid.NewString(),
		interp:   interpreter.New(),
		html:     html,
		json:     json,
		store:    NewMemoryStore(),
		logger:   slog.Default(),
		cookie:   "stepform",
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	routes := func(r chi.Router) {
		r.Get("/", s.handleShow)
		r.Post("/previous", s.navigate("previous", (*interpreter.Session).GoPrevious))
		r.Post("/next", s.navigate("next", (*interpreter.Session).GoNext))
		r.Post("/steps/{index}", s.handleSelect)
		r.Get("/api/view", s.handleView)
		r.Post("/admin/reload", s.handleReload)
		r.Get("/healthz", s.handleHealth)
		if s.metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
		}
		if s.assets != nil {
			r.Handle("/assets/*", http.StripPrefix(s.basePath+"/assets/", http.FileServer(http.FS(s.assets))))
		}
	}

	if s.basePath == "" {
		routes(r)
	} else {
		r.Route(s.basePath, routes)
	}
	return r
}

// Config returns the form currently served.
func (s *Server) Config() schema.FormConfig {
	cfg, _ := s.current()
	return cfg
}

// SetConfig swaps the served form under a new revision. Sessions recorded
// against an earlier revision restart at the first step.
func (s *Server) SetConfig(cfg schema.FormConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.revision = uuid.NewString()
}

func (s *Server) current() (schema.FormConfig, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.revision
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	s.show(w, r, s.html)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.show(w, r, s.json)
}

func (s *Server) show(w http.ResponseWriter, r *http.Request, renderer render.Renderer) {
	cfg, revision := s.current()
	id, record := s.session(w, r)
	view := s.interp.Interpret(cfg, restore(record, revision))
	s.persist(r.Context(), id, record, Record{State: view.State(), Revision: revision})
	s.write(w, r, renderer, view)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid step index", http.StatusBadRequest)
		return
	}
	s.navigate("select", func(sess *interpreter.Session) interpreter.View {
		return sess.SelectStep(index)
	})(w, r)
}

func (s *Server) navigate(action string, apply func(*interpreter.Session) interpreter.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, revision := s.current()
		id, record := s.session(w, r)

		sess := interpreter.NewSessionWith(s.interp, cfg)
		sess.Restore(restore(record, revision))
		view := apply(sess)
		s.persist(r.Context(), id, record, Record{State: sess.State(), Revision: revision})
		s.metrics.navigated(action)

		if wantsJSON(r) {
			s.write(w, r, s.json, view)
			return
		}
		http.Redirect(w, r, s.home(), http.StatusSeeOther)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		http.Error(w, "reload is not configured", http.StatusNotImplemented)
		return
	}
	cfg, err := s.reload(r.Context())
	if err != nil {
		s.metrics.reloaded(false)
		s.logger.ErrorContext(r.Context(), "reload failed", "err", err)
		http.Error(w, "reload failed", http.StatusInternalServerError)
		return
	}
	s.SetConfig(cfg)
	s.metrics.reloaded(true)

	view := s.interp.Interpret(cfg, sequencer.State{})
	s.logger.InfoContext(r.Context(), "form reloaded", "name", cfg.Name, "steps", view.Count)
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  cfg.Name,
		"steps": view.Count,
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "store unhealthy", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session resolves the caller's session id and stored record. Unknown or
// unreadable sessions yield the zero record.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, Record) {
	if cookie, err := r.Cookie(s.cookie); err == nil && cookie.Value != "" {
		record, err := s.store.Load(r.Context(), cookie.Value)
		if err != nil && !errors.Is(err, ErrSessionNotFound) {
			s.logger.WarnContext(r.Context(), "session load failed", "session", cookie.Value, "err", err)
		}
		return cookie.Value, record
	}

	id := s.newID()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    id,
		Path:     s.home(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, Record{}
}

// restore returns the navigation state a record holds for revision. Records
// from another revision start over.
func restore(record Record, revision string) sequencer.State {
	if record.Revision != revision {
		return sequencer.State{}
	}
	return record.State
}

func (s *Server) persist(ctx context.Context, id string, before, after Record) {
	if before == after {
		return
	}
	if err := s.store.Save(ctx, id, after); err != nil {
		s.logger.ErrorContext(ctx, "session save failed", "session", id, "err", err)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, renderer render.Renderer, view interpreter.View) {
	options := s.options
	options.BasePath = s.basePath
	options.Interactive = true

	start := time.Now()
	out, err := renderer.Render(r.Context(), view, options)
	s.metrics.rendered(renderer.Name(), time.Since(start))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", "renderer", renderer.Name(), "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	_, _ = w.Write(out)
}

func (s *Server) home() string {
	return s.basePath + "/"
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
		)
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
