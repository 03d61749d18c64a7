package render

import (
	"strings"

	"github.com/scrapsdev/scraps/pkg/space"
)

// Render returns the scrap's HTML with variables filled from ctx.
// The only error is a *TemplateExpansionError from a loop.
func (s *Scrap) Render(ctx any) (string, error) {
	el := s.elementType(ctx)
	if err := s.setContent(el, ctx); err != nil {
		return "", err
	}
	s.setStyle(el, ctx)
	s.setEvents(el)
	return el.HTML(), nil
}

// elementType creates the element and copies the standard attributes.
func (s *Scrap) elementType(ctx any) *Element {
	tag, inputType := resolveTag(s.GetString("type"))
	el := NewElement(tag, nil)
	if inputType != "" {
		el.Attr("type", inputType)
	}
	el.Attr("id", s.DOMID())

	for _, name := range standardAttributes {
		if v := s.GetString(name); v != "" {
			el.Attr(name, Replace(v, ctx))
		}
	}
	return el
}

// setContent fills the element from the loop, the literal content or the
// children, whichever is declared first.
func (s *Scrap) setContent(el *Element, ctx any) error {
	if s.hasLoop() {
		html, err := s.loop(ctx)
		if err != nil {
			return err
		}
		el.Append(html)
		return nil
	}

	if content := s.GetString("content"); content != "" {
		el.Append(Format(Replace(content, ctx), s.GetString("content_format")))
		return nil
	}

	for _, child := range s.children {
		html, err := child.Render(ctx)
		if err != nil {
			return err
		}
		el.Append(html)
	}
	return nil
}

// setStyle copies a flat style verbatim or renders a style space inline.
func (s *Scrap) setStyle(el *Element, ctx any) {
	switch style := s.Get("style").(type) {
	case string:
		if style != "" {
			el.Attr("style", style)
		}
	case *space.Space:
		el.Attr("style", StyleToInline(style, ctx))
	}
}

// setEvents copies event handlers verbatim. No substitution happens here.
func (s *Scrap) setEvents(el *Element) {
	for _, name := range eventAttributes {
		if v := s.GetString(name); v != "" {
			el.Attr(name, v)
		}
	}
}

func (s *Scrap) hasLoop() bool {
	switch v := s.Get("loop").(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case *space.Space:
		return true
	}
	return false
}
