package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/config"
	"github.com/scrapsdev/scraps/internal/dev"
	"github.com/scrapsdev/scraps/internal/vars"
	"github.com/scrapsdev/scraps/pkg/server"
	"github.com/scrapsdev/scraps/pkg/store"
)

func serveCmd() *cobra.Command {
	var (
		dir     string
		port    int
		host    string
		devMode bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a site over HTTP",
		Long: `Serve the pages of a site, rendering each request.

Settings come from scraps.json in the site directory; without one the
pages are read from <dir>/pages. With --dev the site is watched: broken
pages are shown in the browser and good edits reload it.

Examples:
  scraps serve
  scraps serve --dir ./docs --port 8080
  scraps serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSiteConfig(dir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, devMode)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Site directory")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from scraps.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from scraps.json)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Watch pages and reload browsers on change")

	return cmd
}

// loadSiteConfig loads scraps.json from dir, or defaults rooted at dir
// when the file does not exist.
func loadSiteConfig(dir string) (*config.Config, error) {
	if config.Exists(dir) {
		return config.Load(dir)
	}
	cfg := config.New()
	cfg.Site.Pages = filepath.Join(dir, cfg.Site.Pages)
	return cfg, nil
}

func runServe(ctx context.Context, cfg *config.Config, devMode bool) error {
	logger := slog.Default()

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}

	siteCtx := map[string]any{}
	if path := cfg.ContextPath(); path != "" {
		if siteCtx, err = vars.Load(path); err != nil {
			return err
		}
	}

	srvConfig := server.Config{
		Address:     cfg.Address(),
		Index:       cfg.Site.Index,
		Gzip:        cfg.Server.Gzip,
		ETag:        cfg.Server.ETag,
		MetricsPath: cfg.Server.MetricsPath,
		Tracing:     cfg.Server.Tracing,
		Context:     siteCtx,
		Logger:      logger,
	}

	var (
		srv    *server.Server
		devSrv *dev.Server
	)
	if devMode {
		if cfg.Store.Driver != config.DriverDir {
			warn("--dev watches local files; the %s store is not watched", cfg.Store.Driver)
		}
		devSrv = dev.NewServer(dev.ServerOptions{
			Config:    cfg,
			Logger:    logger,
			OnContext: func(c map[string]any) { srv.SetContext(c) },
		})
		srvConfig.ReloadHandler = devSrv.ReloadHandler()
		srvConfig.ReloadScript = devSrv.Script()
	}

	srv = server.New(st, srvConfig)
	if devSrv != nil {
		go func() {
			if err := devSrv.Start(ctx); err != nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
		defer devSrv.Stop()
	}
	success("Serving %s on %s", cfg.PagesPath(), cfg.URL())
	return srv.Run(ctx)
}
