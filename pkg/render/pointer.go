package render

import (
	"strconv"
	"strings"
)

// Lookuper is a render context that resolves single keys.
// *space.Space satisfies it.
type Lookuper interface {
	Lookup(key string) (any, bool)
}

// Layers is a render context made of several contexts. A path resolves
// against the first layer that holds it, so earlier layers shadow later
// ones.
type Layers []any

// Resolve finds the value at a dotted path such as "user.address.city".
// The first segment is looked up in ctx and every further segment in the
// value found so far. A string context, or any value that is not a
// supported container, resolves nothing.
func Resolve(path string, ctx any) (any, bool) {
	if path == "" {
		return nil, false
	}
	if layers, ok := ctx.(Layers); ok {
		for _, layer := range layers {
			if v, ok := Resolve(path, layer); ok {
				return v, true
			}
		}
		return nil, false
	}

	head, rest, more := strings.Cut(path, ".")
	v, ok := lookup(head, ctx)
	if !ok {
		return nil, false
	}
	if !more {
		return v, true
	}
	return Resolve(rest, v)
}

func lookup(key string, ctx any) (any, bool) {
	switch c := ctx.(type) {
	case nil, string:
		return nil, false
	case Lookuper:
		return c.Lookup(key)
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case map[string]string:
		v, ok := c[key]
		return v, ok
	case []any:
		if i, ok := index(key, len(c)); ok {
			return c[i], true
		}
	case []string:
		if i, ok := index(key, len(c)); ok {
			return c[i], true
		}
	}
	return nil, false
}

func index(key string, n int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
