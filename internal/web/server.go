// Package web is the browser UI over the deck store: a deck grid, deck
// detail pages, and card forms for both card variants. Mutations go through
// the repository; every page render reloads the collection.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/domain"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	repo      *deckstore.Repository
	router    *http.ServeMux
	templates *template.Template
	log       *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(repo *deckstore.Repository, log *slog.Logger) (*Server, error) {
	tpl, err := template.New("").Funcs(template.FuncMap{
		"joinLines": func(parts []string) string { return strings.Join(parts, "\n") },
		"add1":      func(n int) int { return n + 1 },
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		repo:      repo,
		router:    http.NewServeMux(),
		templates: tpl,
		log:       log,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withRequestID(s.router).ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// Embedded FS with a missing subdir is a build defect, not a
		// runtime condition.
		panic(err)
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("POST /decks", s.handleCreateDeck)
	s.router.HandleFunc("GET /decks/{id}", s.handleDeckDetail)
	s.router.HandleFunc("POST /decks/{id}", s.handleUpdateDeck)
	s.router.HandleFunc("DELETE /decks/{id}", s.handleDeleteDeck)
	s.router.HandleFunc("POST /decks/{id}/cards", s.handleCreateCard)
	s.router.HandleFunc("POST /decks/{id}/cards/{cardId}", s.handleUpdateCard)
	s.router.HandleFunc("DELETE /decks/{id}/cards/{cardId}", s.handleDeleteCard)
}

// render executes a named template, logging instead of half-writing a
// response on failure.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template render failed", "template", name, "error", err, "request_id", requestID(r))
	}
}

// renderError maps repository errors onto user-visible responses.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		w.WriteHeader(http.StatusBadRequest)
		s.render(w, r, "error", map[string]any{"Message": err.Error()})
	case errors.Is(err, domain.ErrDeckNotFound), errors.Is(err, domain.ErrCardNotFound):
		w.WriteHeader(http.StatusNotFound)
		s.render(w, r, "error", map[string]any{"Message": err.Error()})
	default:
		s.log.Error("request failed", "error", err, "request_id", requestID(r))
		w.WriteHeader(http.StatusInternalServerError)
		s.render(w, r, "error", map[string]any{"Message": "Something went wrong. Your last change may not have been saved."})
	}
}
