package server

import (
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scrapsdev/scraps/pkg/middleware"
	"github.com/scrapsdev/scraps/pkg/render"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeCSS  = "text/css; charset=utf-8"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, s.config.Index, false)
}

// handlePage serves /{name} as HTML and /{name}.css as the page's
// stylesheet.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if base, ok := strings.CutSuffix(name, ".css"); ok {
		s.servePage(w, r, base, true)
		return
	}
	s.servePage(w, r, name, false)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string, css bool) {
	start := time.Now()
	values, err := s.store.Get(r.Context(), name)
	if err != nil {
		middleware.RecordRender(name, time.Since(start), err)
		s.fail(w, r, name, err)
		return
	}

	page := render.NewPage(values)
	ctx := s.renderContext(r)

	if css {
		body := page.Stylesheet(ctx)
		middleware.RecordRender(name, time.Since(start), nil)
		s.writeBody(w, r, contentTypeCSS, []byte(body))
		return
	}

	if !s.config.ETag {
		s.streamPage(w, r, name, page, ctx, start)
		return
	}

	html, err := page.Render(ctx)
	middleware.RecordRender(name, time.Since(start), err)
	if err != nil {
		s.fail(w, r, name, err)
		return
	}
	s.writeBody(w, r, contentTypeHTML, []byte(html+s.config.ReloadScript))
}

// streamPage writes the page root by root. The status line is already
// out when a later root fails, so the failure is only logged.
func (s *Server) streamPage(w http.ResponseWriter, r *http.Request, name string, page *render.Page, ctx any, start time.Time) {
	w.Header().Set("Content-Type", contentTypeHTML)
	err := page.RenderToWriter(w, ctx)
	middleware.RecordRender(name, time.Since(start), err)
	if err != nil {
		_, se := classify(err)
		s.logger.Error("render failed mid-stream",
			"page", name,
			"code", se.Code,
			"error", err,
			"request_id", requestID(r),
		)
		return
	}
	if s.config.ReloadScript != "" {
		io.WriteString(w, s.config.ReloadScript)
	}
}

// renderContext layers the query parameters over the site context.
// Pages are rendered without escaping, so query values are escaped here.
func (s *Server) renderContext(r *http.Request) render.Layers {
	query := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = html.EscapeString(values[0])
		}
	}
	return render.Layers{query, s.Context()}
}
