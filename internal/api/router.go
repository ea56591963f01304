package api

import (
	"io"
	"net/http"

	"blockfall/internal/engine"
	"blockfall/internal/highscore"
	"blockfall/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HostInterface defines the session host methods used by the API.
// This interface enables mocking for tests without running timers.
// Keep this minimal - only include methods the API layer actually calls.
type HostInterface interface {
	// Snapshot returns the current state and version
	Snapshot() session.Snapshot
	// StartGame begins a fresh run
	StartGame() session.Snapshot
	// Move shifts the active piece horizontally
	Move(dx int) session.Snapshot
	// SoftDrop advances the piece one row
	SoftDrop() session.Snapshot
	// Rotate turns the piece in the given direction
	Rotate(dir int) session.Snapshot
	// HardDrop sends the piece straight down
	HardDrop() session.Snapshot
	// Hold stashes or swaps the active piece
	Hold() session.Snapshot
	// TogglePause flips between playing and paused
	TogglePause() session.Snapshot
	// EventLogStats returns journal counters for the stats endpoint
	EventLogStats() map[string]interface{}
}

// RendererInterface renders a state as a PNG frame.
type RendererInterface interface {
	Frame(state engine.State, w io.Writer) error
}

// ScoreStore exposes the persisted best run.
type ScoreStore interface {
	Best() highscore.Record
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Host: mockHost,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Host is the session host (required)
	Host HostInterface

	// Renderer draws PNG frames. If nil, /api/frame returns 501.
	Renderer RendererInterface

	// Scores is the best-score store. If nil, /api/highscore returns zeros.
	Scores ScoreStore

	// WSHub handles /ws upgrades. If nil, the route is not registered.
	WSHub *WebSocketHub

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router.
type routerHandlers struct {
	host     HostInterface
	renderer RendererInterface
	scores   ScoreStore
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	// CORS configuration
	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		host:     cfg.Host,
		renderer: cfg.Renderer,
		scores:   cfg.Scores,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/highscore", h.handleGetHighScore)
		r.Get("/frame", h.handleGetFrame)

		r.Post("/game/start", h.handleGameStart)
		r.Post("/game/input", h.handleGameInput)
	})

	if cfg.WSHub != nil {
		r.Get("/ws", cfg.WSHub.HandleWebSocket)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
