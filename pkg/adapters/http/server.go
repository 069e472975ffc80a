package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/menube"
	"github.com/aretw0/menube/internal/presentation/graph"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Engine is the navigation surface the HTTP API drives.
type Engine interface {
	MoveUp() bool
	MoveDown() bool
	BackOut() bool
	Activate(ctx context.Context) (bool, error)
	Restore(path domain.Path) error
	Path() domain.Path
	ActiveSiblings() ([]*domain.Node, error)
	ParentNode() (*domain.Node, error)
	Tree() []*domain.Node
	Faulted() error
}

// PathRequest is the body of PUT /path.
type PathRequest struct {
	Path []int `json:"path"`
}

// Server serves the navigation API for one engine.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Logger  *slog.Logger
}

// NewHandler creates the HTTP handler. streams may be nil, which disables
// GET /events; otherwise it must also be registered as a publisher on the engine.
func NewHandler(engine Engine, streams *StreamManager, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{Engine: engine, Streams: streams, Logger: logger}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/menu", s.GetMenu)
	r.Get("/tree", s.GetTree)
	r.Get("/graph", s.GetGraph)
	r.Put("/path", s.PutPath)
	r.Post("/up", s.move(engine.MoveUp))
	r.Post("/down", s.move(engine.MoveDown))
	r.Post("/back", s.move(engine.BackOut))
	r.Post("/activate", s.Activate)
	if streams != nil {
		r.Get("/events", s.SubscribeEvents)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health. A faulted engine reports 503.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Faulted(); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "faulted", "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "menube-http",
		"version": strings.TrimSpace(menube.Version),
	})
}

// GetMenu handles GET /menu.
func (s *Server) GetMenu(w http.ResponseWriter, r *http.Request) {
	view, err := s.view(nil)
	if err != nil {
		s.writeError(w, "menu", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// GetTree handles GET /tree, including any spliced options submenu.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Tree())
}

// GetGraph handles GET /graph with a Mermaid diagram of the tree and the selection.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Tree(), &graph.Overlay{Path: s.Engine.Path()}))
}

// PutPath handles PUT /path.
func (s *Server) PutPath(w http.ResponseWriter, r *http.Request) {
	var body PathRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PutPath: invalid request body", "err", err)
		return
	}
	if err := s.Engine.Restore(domain.Path(body.Path)); err != nil {
		s.writeError(w, "restore", err)
		return
	}
	s.GetMenu(w, r)
}

// Activate handles POST /activate. Command output arrives later as events.
func (s *Server) Activate(w http.ResponseWriter, r *http.Request) {
	moved, err := s.Engine.Activate(r.Context())
	if err != nil {
		s.writeError(w, "activate", err)
		return
	}
	s.respondMoved(w, moved)
}

func (s *Server) move(fn func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondMoved(w, fn())
	}
}

func (s *Server) respondMoved(w http.ResponseWriter, moved bool) {
	view, err := s.view(&moved)
	if err != nil {
		s.writeError(w, "menu", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) view(moved *bool) (domain.MenuView, error) {
	siblings, err := s.Engine.ActiveSiblings()
	if err != nil {
		return domain.MenuView{}, err
	}
	parent, err := s.Engine.ParentNode()
	if err != nil {
		return domain.MenuView{}, err
	}
	v := domain.NewMenuView(s.Engine.Path(), parent, siblings)
	v.Moved = moved
	return v, nil
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	var fault *domain.FaultError
	switch {
	case errors.As(err, &fault):
		// Broken engine invariant, not a bad request.
	case errors.Is(err, domain.ErrInvalidPath), errors.Is(err, domain.ErrEmptyMenu):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEngineFaulted):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled):
		status = 499
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}
