package render

import (
	"io"
	"net/http"
)

// RenderToWriter streams the document to w one root scrap at a time. If
// w implements http.Flusher it is flushed after the doctype and after
// every root, which gets the top of long pages to the browser early.
//
// A root that fails to render stops the stream; whatever was already
// written stays written.
func (p *Page) RenderToWriter(w io.Writer, ctx any) error {
	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	if _, err := io.WriteString(w, Doctype); err != nil {
		return err
	}
	flush()

	for _, root := range p.roots {
		if root.IsDraft() {
			continue
		}
		html, err := root.Render(ctx)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, html+"\n"); err != nil {
			return err
		}
		flush()
	}
	return nil
}

// FlushableWriter wraps an io.Writer and counts flushes. It lets tests
// observe streaming without an http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
