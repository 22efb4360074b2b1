package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

// AI-backed endpoints share one budget.
const (
	aiRequestsPerWindow = 30
	aiWindow            = time.Minute
)

// rateLimiter tracks attempts within a time window.
type rateLimiter struct {
	mu       sync.Mutex
	attempts []time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{max: max, window: window, now: time.Now}
}

// allow returns true if the request is within the rate limit.
func (rl *rateLimiter) allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	valid := rl.attempts[:0]
	for _, t := range rl.attempts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	rl.attempts = valid

	if len(rl.attempts) >= rl.max {
		return false
	}
	rl.attempts = append(rl.attempts, now)
	return true
}

// Server is the HTTP front of the vault: JSON API, dashboard and metrics.
type Server struct {
	vault   *vault.Vault
	mux     *http.ServeMux
	handler http.Handler // securityHeaders → gzip → bodySize → metrics → mux
	server  *http.Server
	log     zerolog.Logger
	metrics metrics.Recorder
	aiLimit *rateLimiter
}

// New creates a new API server.
func New(v *vault.Vault, addr string, log zerolog.Logger, rec metrics.Recorder) *Server {
	if rec == nil {
		rec = metrics.Noop()
	}
	s := &Server{
		vault:   v,
		log:     logging.Component(log, "api"),
		metrics: rec,
		aiLimit: newRateLimiter(aiRequestsPerWindow, aiWindow),
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()

	maxBody := v.Limits().MaxUploadBytes + formOverhead
	s.handler = securityHeadersMiddleware(
		gzhttp.GzipHandler(
			bodySizeMiddleware(maxBody, metrics.Middleware(rec, s.mux)),
		),
	)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusFound)
	})
	s.mux.HandleFunc("GET /ui", s.handleUI)
	s.mux.HandleFunc("GET /ui/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ui", http.StatusMovedPermanently)
	})
	s.mux.HandleFunc("POST /ui/upload", s.handleUIUpload)
	s.mux.HandleFunc("POST /ui/files/{id}/scan", s.handleUIScan)
	s.mux.HandleFunc("POST /ui/files/{id}/delete", s.handleUIDelete)
	s.mux.HandleFunc("POST /ui/chat", s.handleUIChat)

	s.mux.HandleFunc("GET /vault/files", s.handleListFiles)
	s.mux.HandleFunc("POST /vault/files", s.handleUpload)
	s.mux.HandleFunc("GET /vault/files/{id}", s.handleGetFile)
	s.mux.HandleFunc("DELETE /vault/files/{id}", s.handleDeleteFile)
	s.mux.HandleFunc("POST /vault/files/{id}/scan", s.handleScan)
	s.mux.HandleFunc("GET /vault/stats", s.handleStats)
	s.mux.HandleFunc("GET /vault/chat", s.handleGetChat)
	s.mux.HandleFunc("POST /vault/chat", s.handleSendChat)
	s.mux.HandleFunc("GET /vault/activity", s.handleActivity)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening. Returns immediately; use the returned listener to get the actual port.
func (s *Server) Start() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("http server stopped")
		}
	}()
	return ln, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
