package dev

import (
	"path/filepath"

	"github.com/scrapsdev/scraps/internal/config"
)

// CollectWatchPaths returns a normalized list of watch paths for the site:
// the pages directory, the default render context and scraps.json.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := []string{
		cfg.PagesPath(),
		cfg.ContextPath(),
	}
	if cfg.Path() != "" {
		paths = append(paths, cfg.Path())
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}
