package render

import (
	"sort"
	"strings"
)

// Element accumulates a tag, its attributes and its inner HTML.
// Nothing written to an Element is escaped.
type Element struct {
	tag     string
	attrs   map[string]string
	content strings.Builder
}

// NewElement creates an element with the given tag and initial attributes.
func NewElement(tag string, attrs map[string]string) *Element {
	e := &Element{
		tag:   tag,
		attrs: make(map[string]string, len(attrs)+1),
	}
	for k, v := range attrs {
		e.attrs[k] = v
	}
	return e
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// Attr sets an attribute. Later writes win.
func (e *Element) Attr(key, value string) {
	e.attrs[key] = value
}

// GetAttr returns an attribute value.
func (e *Element) GetAttr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// AddClass appends a class name to the class attribute.
func (e *Element) AddClass(name string) {
	if existing := e.attrs["class"]; existing != "" {
		e.attrs["class"] = existing + " " + name
		return
	}
	e.attrs["class"] = name
}

// Append adds raw HTML to the element's content.
func (e *Element) Append(html string) {
	e.content.WriteString(html)
}

// Content returns the inner HTML accumulated so far.
func (e *Element) Content() string {
	return e.content.String()
}

// HTML serializes the element. Attributes are written in name order so
// output is deterministic.
func (e *Element) HTML() string {
	keys := make([]string, 0, len(e.attrs))
	for key := range e.attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, key := range keys {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(e.attrs[key])
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(e.content.String())
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
	return b.String()
}
