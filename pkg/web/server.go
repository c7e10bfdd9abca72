// Package web exposes the HTTP API: session management, race control
// and a server-sent-events live feed of snapshots.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/sessions"
)

type Server struct {
	registry *sessions.Registry
	l        *log.Logger
}

func NewServer(registry *sessions.Registry) *Server {
	return &Server{
		registry: registry,
		l:        log.Default().Named("web"),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.listSessions)
			r.Post("/", s.createSession)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", s.getSnapshot)
				r.Delete("/", s.deleteSession)
				r.Get("/standings", s.getStandings)
				r.Get("/track", s.getTrack)
				r.Get("/live", s.liveFeed)
				r.Post("/pause", s.pauseRace)
				r.Post("/resume", s.resumeRace)
				r.Post("/restart", s.restartRace)
				r.Put("/speed", s.setSpeed)
			})
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// ListenAndServe blocks serving the API. h2c keeps SSE usable for
// HTTP/2 clients without TLS termination in front.
func (s *Server) ListenAndServe(addr string) error {
	s.l.Info("starting http server", log.String("addr", addr))
	//nolint:gosec // timeouts conflict with long-lived SSE streams
	server := &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(newCORS().Handler(s.Routes()), &http2.Server{}),
	}
	return server.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.l.Debug("request",
			log.String("method", r.Method),
			log.String("path", r.URL.Path),
			log.Int("status", ww.Status()),
			log.Duration("duration", time.Since(start)))
	})
}

func newCORS() *cors.Cors {
	// the API is consumed by browser overlays served from anywhere
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         int(2 * time.Hour / time.Second),
	})
}
