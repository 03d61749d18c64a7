package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scrapsdev/scraps/internal/dev"
	"github.com/scrapsdev/scraps/pkg/middleware"
	"github.com/scrapsdev/scraps/pkg/store"
)

// Server renders stored pages over HTTP.
type Server struct {
	config Config
	store  store.Store
	router chi.Router

	ctxMu   sync.RWMutex
	siteCtx map[string]any

	mu         sync.Mutex
	httpServer *http.Server

	logger *slog.Logger
}

// New creates a Server serving pages from st.
func New(st store.Store, config Config) *Server {
	config = config.withDefaults()
	s := &Server{
		config:  config,
		store:   st,
		siteCtx: config.Context,
		logger:  config.Logger.With("component", "server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if s.config.MetricsPath != "" {
		r.Use(middleware.Prometheus())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.Handler())
	}
	if s.config.ReloadHandler != nil {
		r.Handle(dev.ReloadPath, s.config.ReloadHandler)
	}

	r.Group(func(r chi.Router) {
		if s.config.Tracing {
			r.Use(middleware.OpenTelemetry(middleware.WithTracerName("scraps/server")))
		}
		if s.config.Gzip {
			r.Use(func(next http.Handler) http.Handler {
				return gzhttp.GzipHandler(next)
			})
		}
		r.Get("/", s.handleIndex)
		r.Get("/{page}", s.handlePage)
	})
	return r
}

// Handler returns the HTTP handler for the site.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetContext replaces the site-wide render context. Requests already
// rendering keep the context they started with.
func (s *Server) SetContext(ctx map[string]any) {
	s.ctxMu.Lock()
	s.siteCtx = ctx
	s.ctxMu.Unlock()
}

// Context returns the site-wide render context.
func (s *Server) Context() map[string]any {
	s.ctxMu.RLock()
	defer s.ctxMu.RUnlock()
	return s.siteCtx
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}
