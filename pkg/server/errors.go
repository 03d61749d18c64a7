package server

import (
	stderrors "errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scrapsdev/scraps/internal/errors"
	"github.com/scrapsdev/scraps/pkg/render"
	"github.com/scrapsdev/scraps/pkg/space"
	"github.com/scrapsdev/scraps/pkg/store"
)

// classify maps a store or render failure to a status code and a coded
// error for the log.
func classify(err error) (int, *errors.ScrapsError) {
	var parseErr *space.ParseError
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errors.New("E101").Wrap(err)
	case stderrors.Is(err, store.ErrInvalidName):
		return http.StatusNotFound, errors.New("E104").Wrap(err)
	case stderrors.Is(err, render.ErrTemplateExpansion):
		return http.StatusInternalServerError, errors.New("E001").Wrap(err)
	case stderrors.As(err, &parseErr):
		return http.StatusInternalServerError, errors.New("E002").Wrap(err)
	default:
		return http.StatusInternalServerError, errors.New("E102").Wrap(err)
	}
}

// fail logs err and writes an error response. With live reload on the
// body carries the error so the author sees it in the browser.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	status, se := classify(err)

	logger := s.logger.With("page", name, "code", se.Code, "request_id", requestID(r))
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "error", err)
	} else {
		logger.Info("page unavailable", "status", status)
	}

	msg := http.StatusText(status)
	if s.config.ReloadScript != "" {
		msg = se.FormatCompact()
	}
	http.Error(w, msg, status)
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
