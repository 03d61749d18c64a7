package dev

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/scrapsdev/scraps/internal/config"
	"github.com/scrapsdev/scraps/internal/errors"
	"github.com/scrapsdev/scraps/internal/vars"
	"github.com/scrapsdev/scraps/pkg/space"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the site configuration.
	Config *config.Config

	// Logger receives change and reload events. Defaults to slog.Default().
	Logger *slog.Logger

	// OnContext is called with the new render context after the context
	// file changed and loaded cleanly.
	OnContext func(ctx map[string]any)

	// OnReload is called after browsers were told to reload.
	OnReload func(clients int)
}

// Server watches a site while it is being edited. Broken page files are
// reported to connected browsers instead of being served half-parsed;
// good edits reload them.
type Server struct {
	config   *config.Config
	options  ServerOptions
	watcher  *Watcher
	reload   *ReloadServer
	logger   *slog.Logger
	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	brokenMu sync.Mutex
	broken   map[string]bool
}

// NewServer creates a development server for cfg.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    CollectWatchPaths(cfg),
		Ignore:   append(append([]string{}, DefaultIgnore...), cfg.Dev.Ignore...),
		Debounce: cfg.DebounceDuration(),
		PageExt:  cfg.Site.Extension,
	})

	s := &Server{
		config:  cfg,
		options: options,
		watcher: watcher,
		logger:  logger.With("component", "dev"),
		broken:  make(map[string]bool),
	}
	if cfg.Dev.Reload {
		s.reload = NewReloadServer()
	}
	watcher.OnChange(s.handleChanges)
	return s
}

// Start watches the site until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if !s.config.Dev.Watch {
		s.logger.Info("file watching disabled")
		<-ctx.Done()
		return nil
	}

	s.logger.Info("watching", "paths", s.watcher.config.Paths, "interval", s.watcher.config.Debounce)
	err := s.watcher.Start(ctx)
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop stops watching and disconnects all browsers.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.cancel()
	s.watcher.Stop()
	if s.reload != nil {
		s.reload.Close()
	}
}

// ReloadHandler returns the websocket endpoint browsers connect to, or
// nil when live reload is off.
func (s *Server) ReloadHandler() http.Handler {
	if s.reload == nil {
		return nil
	}
	return http.HandlerFunc(s.reload.HandleWebSocket)
}

// Script returns the snippet to append to rendered pages, or "" when
// live reload is off.
func (s *Server) Script() string {
	if s.reload == nil {
		return ""
	}
	return ReloadScript
}

// handleChanges validates what changed and then either reloads browsers
// or shows them the first error.
func (s *Server) handleChanges(changes []Change) {
	var failure *errors.ScrapsError
	var failedPage string
	reload := false

	for _, change := range changes {
		s.logger.Info("changed", "path", change.Path, "type", change.Type.String(), "removed", change.Removed)

		switch change.Type {
		case ChangePage:
			name := s.pageName(change.Path)
			if change.Removed {
				s.setBroken(name, false)
				reload = true
				continue
			}
			if err := checkPage(change.Path); err != nil {
				s.setBroken(name, true)
				s.logger.Error("page invalid", "page", name, "error", err)
				if failure == nil {
					failure, failedPage = err, name
				}
				continue
			}
			s.setBroken(name, false)
			reload = true

		case ChangeContext:
			if change.Removed {
				continue
			}
			ctx, err := vars.Load(change.Path)
			if err != nil {
				se := errors.FromError(err, "E150")
				s.logger.Error("render context invalid", "path", change.Path, "error", se)
				if failure == nil {
					failure, failedPage = se, filepath.Base(change.Path)
				}
				continue
			}
			if s.options.OnContext != nil {
				s.options.OnContext(ctx)
			}
			reload = true

		case ChangeConfig:
			s.logger.Warn("scraps.json changed, restart the server to apply it")
		}
	}

	if failure != nil {
		s.notifyError(failedPage, failure.FormatCompact())
		return
	}
	if s.brokenCount() > 0 {
		return
	}
	if reload {
		s.clearReloadError()
		s.notifyReload()
	}
}

// checkPage parses a page file and returns a coded error pointing at the
// offending line.
func checkPage(path string) *errors.ScrapsError {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New("E102").Wrap(err)
	}
	if _, err := space.Parse(string(data)); err != nil {
		se := errors.New("E002").Wrap(err)
		var pe *space.ParseError
		if stderrors.As(err, &pe) {
			se.WithLocation(path, pe.Line)
		}
		return se
	}
	return nil
}

func (s *Server) pageName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), s.config.Site.Extension)
}

func (s *Server) setBroken(name string, broken bool) {
	s.brokenMu.Lock()
	defer s.brokenMu.Unlock()
	if broken {
		s.broken[name] = true
	} else {
		delete(s.broken, name)
	}
}

func (s *Server) brokenCount() int {
	s.brokenMu.Lock()
	defer s.brokenMu.Unlock()
	return len(s.broken)
}

func (s *Server) notifyReload() {
	if s.reload == nil {
		s.logger.Info("pages changed (live reload disabled)")
		return
	}
	s.reload.NotifyReload("")
	clients := s.reload.ClientCount()
	if s.options.OnReload != nil {
		s.options.OnReload(clients)
	}
	s.logger.Info("reloaded", "browsers", clients)
}

func (s *Server) notifyError(page, msg string) {
	if s.reload == nil {
		return
	}
	s.reload.NotifyError(page, msg)
}

func (s *Server) clearReloadError() {
	if s.reload == nil {
		return
	}
	s.reload.ClearError()
}
