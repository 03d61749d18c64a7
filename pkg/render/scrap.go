package render

import (
	"strings"

	"github.com/scrapsdev/scraps/pkg/space"
)

// IDSeparator joins path segments into an element id.
const IDSeparator = "-"

// Scrap is one node of a page: an element declaration plus its
// materialized child scraps. A Scrap is immutable once built and may be
// rendered from several goroutines at once.
type Scrap struct {
	path     []string
	values   *space.Space
	children []*Scrap
}

// NewScrap builds a scrap and, recursively, all scraps nested under its
// "scraps" key. values is copied; later changes to it are not seen.
// A string value becomes a scrap whose content is that string.
func NewScrap(path []string, values any) *Scrap {
	s := &Scrap{
		path:   append([]string(nil), path...),
		values: space.New(),
	}
	switch v := values.(type) {
	case *space.Space:
		s.values.Patch(v.Clone())
	case string:
		s.values.Set("content", v)
	}

	if scraps, ok := s.values.GetSpace("scraps"); ok {
		scraps.Each(func(id string, child any) {
			s.children = append(s.children, NewScrap(s.childPath(id), child))
		})
	}
	return s
}

func (s *Scrap) childPath(id string) []string {
	p := make([]string, len(s.path)+1)
	copy(p, s.path)
	p[len(s.path)] = id
	return p
}

// Path returns the ids from the root scrap down to this one.
func (s *Scrap) Path() []string {
	return append([]string(nil), s.path...)
}

// ID returns the scrap's own id, the last path segment.
func (s *Scrap) ID() string {
	if len(s.path) == 0 {
		return ""
	}
	return s.path[len(s.path)-1]
}

// DOMID returns the id attribute the scrap renders with: its full path
// joined by IDSeparator, so equal ids in different subtrees stay unique.
func (s *Scrap) DOMID() string {
	return strings.Join(s.path, IDSeparator)
}

// Selector returns a CSS selector matching the rendered element.
func (s *Scrap) Selector() string {
	return "#" + s.DOMID()
}

// Get returns the value declared under key.
func (s *Scrap) Get(key string) any {
	v, _ := s.values.Lookup(key)
	return v
}

// GetString returns the string declared under key.
func (s *Scrap) GetString(key string) string {
	v, _ := s.values.GetString(key)
	return v
}

// Values returns a copy of the scrap's declarations.
func (s *Scrap) Values() *space.Space {
	return s.values.Clone()
}

// Children returns the nested scraps in declaration order.
func (s *Scrap) Children() []*Scrap {
	return append([]*Scrap(nil), s.children...)
}

// Child returns the direct child with the given id.
func (s *Scrap) Child(id string) *Scrap {
	for _, c := range s.children {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Find walks down the given child ids.
func (s *Scrap) Find(ids ...string) *Scrap {
	current := s
	for _, id := range ids {
		if current = current.Child(id); current == nil {
			return nil
		}
	}
	return current
}

// IsDraft reports whether the scrap is marked draft.
func (s *Scrap) IsDraft() bool {
	return s.GetString("draft") == "true"
}

// Clone returns an independent copy of the scrap rooted at id.
func (s *Scrap) Clone(id string) *Scrap {
	return NewScrap([]string{id}, s.values)
}

// walk visits s and its descendants depth first.
func (s *Scrap) walk(fn func(*Scrap)) {
	fn(s)
	for _, c := range s.children {
		c.walk(fn)
	}
}
