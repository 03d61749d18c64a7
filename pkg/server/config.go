package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Config configures a Server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: "localhost:3000".
	Address string

	// Index is the page served at "/".
	// Default: "index".
	Index string

	// Gzip compresses page responses.
	Gzip bool

	// ETag adds content hashes to page responses and answers matching
	// If-None-Match requests with 304. Pages are streamed when it is off.
	ETag bool

	// MetricsPath is where Prometheus metrics are exposed. Empty disables
	// request metrics.
	MetricsPath string

	// Tracing opens an OpenTelemetry span for every page request.
	Tracing bool

	// Context is the site-wide render context. Query parameters shadow it.
	Context map[string]any

	// ReloadHandler serves the live reload websocket when set.
	ReloadHandler http.Handler

	// ReloadScript is appended to every rendered page.
	ReloadScript string

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger

	// Server lifecycle

	// ReadHeaderTimeout bounds the time to read request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:           "localhost:3000",
		Index:             "index",
		Gzip:              true,
		ETag:              true,
		MetricsPath:       "/metrics",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}

// withDefaults fills in defaults for unset fields. Booleans are taken
// as given.
func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.Index == "" {
		c.Index = defaults.Index
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
