package api

import (
	"log"
	"net/http"

	"blockfall/internal/session"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with the WebSocket hub for real-time updates.
type Server struct {
	host        HostInterface
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter() directly.
func NewServer(host HostInterface, renderer RendererInterface, scores ScoreStore) *Server {
	s := &Server{
		host:  host,
		wsHub: NewWebSocketHub(host),
	}

	// Create rate limiter (we track it for cleanup on Stop)
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	// Build router using the factory
	s.router = NewRouter(RouterConfig{
		Host:        host,
		Renderer:    renderer,
		Scores:      scores,
		WSHub:       s.wsHub,
		RateLimiter: s.rateLimiter,
	})

	return s
}

// PublishSnapshot forwards a fresh snapshot to connected WebSocket clients.
// Wire this as the session host's OnChange callback.
func (s *Server) PublishSnapshot(snap session.Snapshot) {
	s.wsHub.PublishSnapshot(snap)
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network listeners.
//
// Call this method only once. To stop the server, signal the process.
func (s *Server) Start(addr string) error {
	// Start background workers NOW, not in constructor
	// This is critical for testability - tests can construct the server
	// and use Router() without these workers running.
	go s.wsHub.Run()

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("🧱 State:  http://localhost%s/api/state", addr)
	log.Printf("🖼️ Frames: http://localhost%s/api/frame", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
// Call this before process exit to ensure clean cleanup.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	// Note: WebSocket connections are closed when the process exits.
}
