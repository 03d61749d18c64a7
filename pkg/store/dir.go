package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/scrapsdev/scraps/pkg/space"
)

// DirStore stores pages as files in a local directory.
type DirStore struct {
	dir string
	ext string
}

// NewDirStore creates a store over dir. Page files are named
// <name><ext>, e.g. "about.space".
func NewDirStore(dir, ext string) *DirStore {
	return &DirStore{dir: dir, ext: ext}
}

// Dir returns the directory holding the page files.
func (s *DirStore) Dir() string {
	return s.dir
}

// Path returns the file path a page is stored at.
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, name+s.ext)
}

// Get loads and parses the named page.
func (s *DirStore) Get(_ context.Context, name string) (*space.Space, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("store: read %s: %w", name, err)
	}
	page, err := space.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", s.Path(name), err)
	}
	return page, nil
}

// Put writes the page atomically, creating the directory if needed.
func (s *DirStore) Put(_ context.Context, name string, page *space.Space) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("store: create %s: %w", s.dir, err)
	}
	if err := atomic.WriteFile(s.Path(name), strings.NewReader(page.String())); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return nil
}

// List returns the names of page files in the directory. Files whose
// names are not valid page names are skipped. A missing directory is
// an empty store.
func (s *DirStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: list %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), s.ext)
		if !ok || !ValidName(name) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
