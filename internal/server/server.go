package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/jparkin/mnemo/internal/engine"
	"github.com/jparkin/mnemo/internal/store"
)

// Server is the mnemo HTTP API server, the surface the study UI talks to.
type Server struct {
	db      *store.DB
	eng     *engine.Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server. corsOrigins lists the allowed browser origins;
// empty means same-origin only.
func New(db *store.DB, eng *engine.Engine, version string, corsOrigins []string) *Server {
	s := &Server{
		db:      db,
		eng:     eng,
		version: version,
		started: time.Now(),
	}
	s.routes(corsOrigins)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(corsOrigins []string) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	if len(corsOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		})
		r.Use(c.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleAddCard)
		r.Delete("/cards/{cardID}", s.handleRemoveCard)
		r.Get("/cards/due", s.handleDueCards)

		r.Get("/packs", s.handleListPacks)
		r.Post("/packs", s.handleCreatePack)
		r.Put("/packs/{packID}", s.handleUpdatePack)
		r.Delete("/packs/{packID}", s.handleDeletePack)

		r.Post("/study/start", s.handleStartSession)
		r.Post("/study/{sessionID}/answer", s.handleAnswer)
		r.Post("/study/{sessionID}/finish", s.handleFinishSession)

		r.Get("/stats", s.handleStats)
		r.Get("/stats/forecast", s.handleForecast)
		r.Get("/stats/activity", s.handleActivity)
		r.Get("/stats/retention", s.handleRetention)
		r.Get("/stats/categories", s.handleCategories)

		r.Post("/reset", s.handleReset)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
