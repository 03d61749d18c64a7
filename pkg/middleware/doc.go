// Package middleware provides net/http middleware for scraps servers.
//
// This package includes:
//   - OpenTelemetry distributed tracing middleware
//   - Prometheus metrics middleware and render recording
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware opens a server span for each request and
// names it after the matched route:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// The Prometheus middleware counts requests by route and status code and
// times them. RecordRender adds per-page render counts, durations and
// error types:
//
//	r.Use(middleware.Prometheus(middleware.WithNamespace("docs")))
//	r.Handle("/metrics", promhttp.Handler())
//
//	start := time.Now()
//	html, err := page.Render(ctx)
//	middleware.RecordRender(name, time.Since(start), err)
package middleware
