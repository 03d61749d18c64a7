package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/scrapsdev/scraps/internal/config"
	"github.com/scrapsdev/scraps/pkg/space"
)

// ErrNotFound is returned when a page doesn't exist.
var ErrNotFound = errors.New("store: page not found")

// ErrInvalidName is returned for page names outside [A-Za-z0-9_-]+.
var ErrInvalidName = errors.New("store: invalid page name")

// Store is the interface for page storage backends.
type Store interface {
	// Get loads and parses the named page.
	Get(ctx context.Context, name string) (*space.Space, error)

	// Put serializes and stores the page under name, replacing any
	// previous version.
	Put(ctx context.Context, name string, page *space.Space) error

	// List returns the names of all stored pages, sorted.
	List(ctx context.Context) ([]string, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether name can be used as a page name. Names map
// directly to file names and object keys, so path separators and dots
// are rejected.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Open returns the store selected by cfg.Store.Driver.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverDir, "":
		return NewDirStore(cfg.PagesPath(), cfg.Site.Extension), nil
	case config.DriverS3:
		if cfg.Store.Bucket == "" {
			return nil, errors.New("store: s3 driver needs a bucket")
		}
		client := NewS3Client(cfg.Store.Region, cfg.Store.Endpoint)
		return NewS3Store(client, cfg.Store.Bucket, cfg.Store.Prefix, cfg.Site.Extension), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}
