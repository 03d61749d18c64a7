package render

import (
	"strings"

	"github.com/scrapsdev/scraps/pkg/space"
)

// Doctype starts every rendered page.
const Doctype = "<!doctype html>\n"

// Page is an ordered collection of root scraps built once from a space.
type Page struct {
	values *space.Space
	roots  []*Scrap
}

// NewPage builds a page and all of its scraps from values. values is
// copied; later changes to it are not seen.
func NewPage(values *space.Space) *Page {
	p := &Page{values: values.Clone()}
	if p.values == nil {
		p.values = space.New()
	}
	p.values.Each(func(id string, v any) {
		p.roots = append(p.roots, NewScrap([]string{id}, v))
	})
	return p
}

// Clone returns an independent page built from the same declarations.
func (p *Page) Clone() *Page {
	return NewPage(p.values)
}

// Values returns a copy of the declarations the page was built from.
func (p *Page) Values() *space.Space {
	return p.values.Clone()
}

// Scraps returns the root scraps in declaration order, drafts included.
func (p *Page) Scraps() []*Scrap {
	return append([]*Scrap(nil), p.roots...)
}

// Scrap returns the root scrap with the given id.
func (p *Page) Scrap(id string) *Scrap {
	for _, s := range p.roots {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// Render returns the full HTML document. Draft roots are skipped.
func (p *Page) Render(ctx any) (string, error) {
	var b strings.Builder
	if err := p.RenderToWriter(&b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Stylesheet returns one CSS rule per scrap that declares a style space,
// in document order. Draft roots are skipped.
func (p *Page) Stylesheet(ctx any) string {
	var b strings.Builder
	for _, root := range p.roots {
		if root.IsDraft() {
			continue
		}
		root.walk(func(s *Scrap) {
			if style, ok := s.values.GetSpace("style"); ok {
				b.WriteString(StyleToCSS(s.Selector(), style, ctx))
			}
		})
	}
	return b.String()
}
