package space

import (
	"strings"
)

// Space is an ordered mapping from keys to string or *Space values.
// The zero value is an empty space ready to use.
type Space struct {
	keys   []string
	values map[string]any
}

// New creates an empty space.
func New() *Space {
	return &Space{values: make(map[string]any)}
}

// Len returns the number of entries.
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in declaration order.
func (s *Space) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Lookup returns the value stored directly under key.
func (s *Space) Lookup(key string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is declared.
func (s *Space) Has(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Get resolves a space separated key path such as "header style color".
// It returns nil when any segment is missing.
func (s *Space) Get(path string) any {
	current := s
	parts := strings.Fields(path)
	for i, part := range parts {
		v, ok := current.Lookup(part)
		if !ok {
			return nil
		}
		if i == len(parts)-1 {
			return v
		}
		next, ok := v.(*Space)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// GetString returns the string stored under key.
func (s *Space) GetString(key string) (string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetSpace returns the nested space stored under key.
func (s *Space) GetSpace(key string) (*Space, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Space)
	return child, ok
}

// Set stores value under key. A key that already exists keeps its
// position. Values must be string or *Space; anything else is ignored.
func (s *Space) Set(key string, value any) {
	switch value.(type) {
	case string, *Space:
	default:
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key.
func (s *Space) Delete(key string) {
	if _, ok := s.Lookup(key); !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Each calls fn for every entry in declaration order.
func (s *Space) Each(fn func(key string, value any)) {
	if s == nil {
		return
	}
	for _, key := range s.keys {
		fn(key, s.values[key])
	}
}

// Patch merges the entries of other into s. Later writes win; nested
// spaces are shared, not copied.
func (s *Space) Patch(other *Space) {
	other.Each(func(key string, value any) {
		s.Set(key, value)
	})
}

// Clone returns a deep copy.
func (s *Space) Clone() *Space {
	if s == nil {
		return nil
	}
	c := &Space{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]any, len(s.values)),
	}
	copy(c.keys, s.keys)
	for key, value := range s.values {
		if child, ok := value.(*Space); ok {
			value = child.Clone()
		}
		c.values[key] = value
	}
	return c
}

// Equal reports whether both spaces hold the same keys, in the same
// order, with equal values.
func (s *Space) Equal(other *Space) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i, key := range s.keys {
		if other.keys[i] != key {
			return false
		}
		switch v := s.values[key].(type) {
		case string:
			ov, ok := other.values[key].(string)
			if !ok || ov != v {
				return false
			}
		case *Space:
			ov, ok := other.values[key].(*Space)
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	}
	return true
}

// String serializes the space to its text form.
func (s *Space) String() string {
	var b strings.Builder
	s.write(&b, 0)
	return b.String()
}

func (s *Space) write(b *strings.Builder, depth int) {
	indent := strings.Repeat(" ", depth)
	s.Each(func(key string, value any) {
		b.WriteString(indent)
		b.WriteString(key)
		switch v := value.(type) {
		case *Space:
			b.WriteByte('\n')
			v.write(b, depth+1)
		case string:
			if !strings.Contains(v, "\n") && v != "" {
				b.WriteByte(' ')
				b.WriteString(v)
				b.WriteByte('\n')
				return
			}
			b.WriteString(" \n")
			if v == "" {
				return
			}
			for _, line := range strings.Split(v, "\n") {
				b.WriteString(indent)
				b.WriteByte(' ')
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	})
}

// MarshalText implements encoding.TextMarshaler.
func (s *Space) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Space) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}
