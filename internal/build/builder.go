package build

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/zeebo/blake3"

	"github.com/scrapsdev/scraps/internal/config"
	"github.com/scrapsdev/scraps/internal/errors"
	"github.com/scrapsdev/scraps/pkg/render"
	"github.com/scrapsdev/scraps/pkg/space"
	"github.com/scrapsdev/scraps/pkg/store"
)

// Result contains the build result.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Output is the directory the site was written to.
	Output string

	// Pages is the number of pages rendered.
	Pages int

	// Manifest maps every written file to its content hash.
	Manifest map[string]string
}

// Options configures the build.
type Options struct {
	// Output overrides the configured output directory.
	Output string

	// Context is the render context for every page.
	Context map[string]any

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder renders every stored page to static files.
type Builder struct {
	config  *config.Config
	store   store.Store
	options Options
}

// New creates a new builder.
func New(cfg *config.Config, st store.Store, options Options) *Builder {
	if options.Output == "" {
		options.Output = cfg.OutputPath()
	}
	return &Builder{
		config:  cfg,
		store:   st,
		options: options,
	}
}

// Build renders the site. For each page it writes <name>.html and, when
// the page declares styles, <name>.css, followed by manifest.json. The
// output directory is replaced; the first failing page aborts the build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{
		Output:   b.options.Output,
		Manifest: make(map[string]string),
	}

	names, err := b.store.List(ctx)
	if err != nil {
		return nil, errors.New("E102").Wrap(err)
	}

	b.progress("Cleaning output directory...")
	if err := os.RemoveAll(b.options.Output); err != nil {
		return nil, errors.New("E142").Wrap(err)
	}
	if err := os.MkdirAll(b.options.Output, 0755); err != nil {
		return nil, errors.New("E142").Wrap(err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.progress("Rendering " + name)
		if err := b.buildPage(ctx, name, result.Manifest); err != nil {
			return nil, err
		}
		result.Pages++
	}

	b.progress("Writing manifest...")
	if err := b.writeManifest(result.Manifest); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (b *Builder) buildPage(ctx context.Context, name string, manifest map[string]string) error {
	values, err := b.store.Get(ctx, name)
	if err != nil {
		return pageError(name, err)
	}

	page := render.NewPage(values)
	html, err := page.Render(b.options.Context)
	if err != nil {
		return pageError(name, err)
	}
	if err := b.writeFile(name+".html", []byte(html), manifest); err != nil {
		return err
	}

	if css := page.Stylesheet(b.options.Context); css != "" {
		if err := b.writeFile(name+".css", []byte(css), manifest); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes one output file and records its hash.
func (b *Builder) writeFile(rel string, data []byte, manifest map[string]string) error {
	if err := atomic.WriteFile(filepath.Join(b.options.Output, rel), bytes.NewReader(data)); err != nil {
		return errors.New("E142").Wrap(err)
	}
	manifest[rel] = hashBytes(data)
	return nil
}

// writeManifest writes the file manifest.
func (b *Builder) writeManifest(manifest map[string]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(b.options.Output, "manifest.json")
	if err := atomic.WriteFile(path, bytes.NewReader(append(data, '\n'))); err != nil {
		return errors.New("E142").Wrap(err)
	}
	return nil
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// hashBytes returns the hex BLAKE3 hash of data.
func hashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func pageError(name string, err error) error {
	var pe *space.ParseError
	switch {
	case stderrors.As(err, &pe):
		return errors.New("E002").Wrap(err).WithDetail("page " + name)
	case stderrors.Is(err, render.ErrTemplateExpansion):
		return errors.New("E001").Wrap(err).WithDetail("page " + name)
	case stderrors.Is(err, store.ErrNotFound):
		return errors.New("E101").Wrap(err)
	default:
		return errors.FromError(err, "E102")
	}
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.options.Output)
}
