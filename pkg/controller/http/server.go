package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/service/arbiter"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/errutil"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/safe"
)

// Server exposes the chat widget over HTTP: a JSON API for message
// exchange, widget visibility and voice calls, plus a websocket stream
// for live transcript updates.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	arb    *arbiter.Arbiter
}

type Options func(*Server)

// WithArbiter streams scene pause/resume signals over the websocket
func WithArbiter(arb *arbiter.Arbiter) Options {
	return func(s *Server) {
		s.arb = arb
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/messages", s.handleMessages)
		r.Delete("/history", s.handleClearHistory)

		r.Route("/widget", func(r chi.Router) {
			r.Post("/open", s.handleWidgetOpen)
			r.Post("/close", s.handleWidgetClose)
		})

		r.Route("/call", func(r chi.Router) {
			r.Post("/start", s.handleCallStart)
			r.Post("/stop", s.handleCallStop)
			r.Get("/status", s.handleCallStatus)
		})
	})

	r.Get("/ws", s.handleWebSocket)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// respondJSON marshals v and writes it with the JSON content type
func respondJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
