package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/build"
	"github.com/scrapsdev/scraps/internal/vars"
	"github.com/scrapsdev/scraps/pkg/store"
)

func buildCmd() *cobra.Command {
	var (
		dir    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page to static files",
		Long: `Render every page of the site to HTML, plus a stylesheet for pages
that declare styles, and write a manifest of content hashes.

Examples:
  scraps build
  scraps build --dir ./docs --out ./public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSiteConfig(dir)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

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

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			builder := build.New(cfg, st, build.Options{
				Output:  output,
				Context: siteCtx,
			})
			result, err := builder.Build(ctx)
			if err != nil {
				return err
			}
			success("Built %d page(s) into %s in %s", result.Pages, result.Output, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Site directory")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output directory (default from scraps.json)")

	return cmd
}
