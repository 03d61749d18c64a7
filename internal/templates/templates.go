package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/natefinch/atomic"

	"github.com/scrapsdev/scraps/internal/config"
	"github.com/scrapsdev/scraps/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// Name is the name of the site.
	Name string

	// Title is shown in the generated pages.
	Title string
}

// Template represents a site template.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Files is a map of relative paths to file contents. Contents are
	// text/template sources with [[ ]] delimiters, so page markers such
	// as {{name}} pass through untouched.
	Files map[string]string

	// Context is the render context file among Files, if any.
	Context string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"blog":    blogTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E145").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: blog, minimal")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a site in dir: the template files plus a scraps.json.
// Nothing is written if any of the files already exists.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = cfg.Name
	}

	paths := make([]string, 0, len(t.Files)+1)
	for relPath := range t.Files {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	for _, relPath := range append(paths, config.ConfigFileName) {
		if _, err := os.Stat(filepath.Join(dir, relPath)); err == nil {
			return errors.New("E146").WithDetail(filepath.Join(dir, relPath))
		}
	}

	for _, relPath := range paths {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}
		if err := atomic.WriteFile(fullPath, &buf); err != nil {
			return err
		}
	}

	site := config.New()
	site.Name = cfg.Name
	site.Context = t.Context
	return site.SaveTo(filepath.Join(dir, config.ConfigFileName))
}

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A single page",
		Files: map[string]string{
			"pages/index.space": `header
 type h1
 content [[.Title]]
intro
 type p
 content Hello {{name world}}. Edit pages/index.space to get started.
`,
		},
	}
}

// blogTemplate returns a small blog whose post list comes from the
// render context.
func blogTemplate() *Template {
	return &Template{
		Name:        "blog",
		Description: "Post index driven by a YAML context, plus an about page",
		Context:     "context.yaml",
		Files: map[string]string{
			"context.yaml": `site:
  title: [[.Title]]
  author: Anonymous
posts:
  hello:
    title: Hello, world
    date: "2026-01-01"
  second:
    title: A second post
    date: "2026-02-01"
`,
			"pages/index.space": `header
 type h1
 content {{site.title}}
 style
  font-family system-ui, sans-serif
posts
 type ul
 loop {{posts}}
 scraps
  {{key}}
   type li
   content {{value.title}} ({{value.date}})
footer
 type p
 content Written by {{site.author}}. <a href="/about">About</a>
`,
			"pages/about.space": `header
 type h1
 content About [[.Title]]
body
 content_format markdown
 content 
  This blog is rendered by **scraps** from plain
  space files in the pages directory.
`,
		},
	}
}
