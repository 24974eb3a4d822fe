package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "github.com/jaminalder/tic-tac-gomoku/internal/app"
)

// Option configures the HTTP server.
type Option func(*handlers)

// WithLogger sets the handler logger.
func WithLogger(log *zap.SugaredLogger) Option {
    return func(h *handlers) {
        if log != nil {
            h.log = log
        }
    }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) Option {
    return func(h *handlers) {
        if d > 0 {
            h.heartbeat = d
        }
    }
}

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment renderer on s so SSE subscribers receive rendered boards.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{
        svc:       s,
        tpl:       loadTemplates(),
        log:       zap.NewNop().Sugar(),
        heartbeat: 15 * time.Second,
    }
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.Logger)
    r.Use(middleware.Recoverer)
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/select", h.selectCell)
        r.Post("/reset", h.reset)
        r.Get("/events", h.events)
        r.Get("/state", h.state)
        r.Get("/ws", h.socket)
    })
    return r
}
