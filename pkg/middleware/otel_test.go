package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingProvider hands out spans that remember what was set on them.
type recordingProvider struct {
	noop.TracerProvider
	mu    sync.Mutex
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{
		name:  name,
		kind:  cfg.SpanKind(),
		attrs: map[attribute.Key]attribute.Value{},
	}
	for _, kv := range cfg.Attributes() {
		span.attrs[kv.Key] = kv.Value
	}
	t.provider.mu.Lock()
	t.provider.spans = append(t.provider.spans, span)
	t.provider.mu.Unlock()
	return trace.ContextWithSpan(ctx, span), span
}

type recordingSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SetName(name string) { s.name = name }

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordingSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }

func TestOpenTelemetry_RecordsSpan(t *testing.T) {
	tp := &recordingProvider{}
	var inHandler trace.Span
	r := newTestRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/inspect/{page}", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/inspect/x", nil))

	if len(tp.spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(tp.spans))
	}

	ok := tp.spans[0]
	if ok.name != "scraps GET /{page}" {
		t.Errorf("span name = %q", ok.name)
	}
	if ok.kind != trace.SpanKindServer {
		t.Errorf("span kind = %v", ok.kind)
	}
	if !ok.ended {
		t.Error("span was not ended")
	}
	if ok.status != codes.Ok {
		t.Errorf("status = %v, want Ok", ok.status)
	}
	if got := ok.attrs["scraps.page"].AsString(); got != "about" {
		t.Errorf("scraps.page = %q", got)
	}
	if got := ok.attrs["http.status_code"].AsInt64(); got != 200 {
		t.Errorf("http.status_code = %d", got)
	}
	if got := ok.attrs["test.attr"].AsString(); got != "ok" {
		t.Errorf("test.attr = %q", got)
	}

	if failed := tp.spans[1]; failed.status != codes.Error {
		t.Errorf("500 response status = %v, want Error", failed.status)
	}

	if inHandler != trace.Span(tp.spans[2]) {
		t.Error("handler did not see the request span in its context")
	}
}

func TestOpenTelemetry_FilterSkipsTracing(t *testing.T) {
	tp := &recordingProvider{}
	r := newTestRouter(OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("filtered request not served: %d %q", rec.Code, rec.Body.String())
	}
	if len(tp.spans) != 0 {
		t.Errorf("spans = %d, want 0", len(tp.spans))
	}
}

func TestOpenTelemetry_GlobalProvider(t *testing.T) {
	// The default global provider is a no-op; requests still pass through.
	r := newTestRouter(OpenTelemetry(WithTracerName("test")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
