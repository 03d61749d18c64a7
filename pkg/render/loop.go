package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/scrapsdev/scraps/pkg/space"
)

// loopItem is one key/value pair a loop iterates over.
type loopItem struct {
	key   string
	value any
}

// loop expands the scrap's child template once per loop item. A scrap
// without both loop and scraps, or whose loop source resolves to
// nothing iterable, produces no output.
func (s *Scrap) loop(ctx any) (string, error) {
	mold, ok := s.values.GetSpace("scraps")
	if !ok {
		return "", nil
	}
	items := loopItems(s.Get("loop"), ctx)
	if len(items) == 0 {
		return "", nil
	}

	partial := mold.String()
	keyed := moldKeyed(mold)
	var b strings.Builder
	for _, item := range items {
		scope := Layers{map[string]any{"key": item.key, "value": item.value}, ctx}

		text, err := fillMold(partial, scope)
		if err != nil {
			return "", &TemplateExpansionError{Path: s.Path(), Key: item.key, Err: err}
		}
		scraps, err := space.Parse(text)
		if err != nil {
			return "", &TemplateExpansionError{Path: s.Path(), Key: item.key, Err: err}
		}

		for _, id := range scraps.Keys() {
			v, _ := scraps.Lookup(id)
			path := s.childPath(id)
			if !keyed {
				path = append(s.childPath(item.key), id)
			}
			html, err := NewScrap(path, v).Render(scope)
			if err != nil {
				return "", err
			}
			b.WriteString(html)
		}
	}
	return b.String(), nil
}

// moldKeyed reports whether a top-level key of the mold varies with the
// loop item. Otherwise the item key is added to the child paths so every
// iteration renders distinct ids.
func moldKeyed(mold *space.Space) bool {
	for _, key := range mold.Keys() {
		for _, m := range markerPattern.FindAllStringSubmatch(key, -1) {
			if m[1] == "key" || m[1] == "value" || strings.HasPrefix(m[1], "value.") {
				return true
			}
		}
	}
	return false
}

// fillMold substitutes scalar values into a serialized template, looking
// in the loop item first and the outer context second. Markers without a
// scalar value are left in place for the rendering pass. A value that
// lands in a key must be a single word.
func fillMold(mold string, scope Layers) (string, error) {
	var err error
	fail := func(format string, args ...any) {
		if err == nil {
			err = fmt.Errorf(format, args...)
		}
	}
	fill := func(text string, key bool) string {
		return replaceMarkers(text, func(m marker) string {
			v, ok := Resolve(m.name, scope)
			if !ok {
				return m.text
			}
			str, ok := scalar(v)
			if !ok {
				return m.text
			}
			if strings.Contains(str, "\n") {
				fail("value of %s spans several lines", m.text)
				return m.text
			}
			if key && strings.ContainsAny(str, " \t") {
				fail("value %q of %s is used as a key and contains a space", str, m.text)
				return m.text
			}
			return str
		})
	}

	lines := strings.Split(mold, "\n")
	textDepth := -1
	for i, line := range lines {
		depth := len(line) - len(strings.TrimLeft(line, " "))
		if textDepth >= 0 && depth > textDepth {
			lines[i] = fill(line, false)
			continue
		}
		textDepth = -1

		end := keyEnd(line, depth)
		if end == len(line)-1 && line[end] == ' ' {
			textDepth = depth
		}
		lines[i] = fill(line[:end], true) + fill(line[end:], false)
	}
	return strings.Join(lines, "\n"), err
}

// keyEnd returns the offset of the space that ends the key on a mold
// line, skipping over markers, or len(line) when the line is a bare key.
func keyEnd(line string, start int) int {
	markers := markerPattern.FindAllStringIndex(line, -1)
	i := start
	for i < len(line) {
		if len(markers) > 0 && i == markers[0][0] {
			i = markers[0][1]
			markers = markers[1:]
			continue
		}
		for len(markers) > 0 && markers[0][0] < i {
			markers = markers[1:]
		}
		if line[i] == ' ' {
			return i
		}
		i++
	}
	return len(line)
}

// loopItems resolves a loop declaration to the pairs it iterates over.
func loopItems(source any, ctx any) []loopItem {
	if str, ok := source.(string); ok {
		source = resolveLoopSource(strings.TrimSpace(str), ctx)
	}

	var items []loopItem
	switch src := source.(type) {
	case string:
		for i, field := range strings.Fields(src) {
			items = append(items, loopItem{key: strconv.Itoa(i), value: field})
		}
	case *space.Space:
		src.Each(func(key string, value any) {
			items = append(items, loopItem{key: key, value: value})
		})
	case []string:
		for i, v := range src {
			items = append(items, loopItem{key: strconv.Itoa(i), value: v})
		}
	case []any:
		for i, v := range src {
			items = append(items, loopItem{key: strconv.Itoa(i), value: v})
		}
	case map[string]any:
		for _, key := range sortedKeys(src) {
			items = append(items, loopItem{key: key, value: src[key]})
		}
	case map[string]string:
		keys := make([]string, 0, len(src))
		for key := range src {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			items = append(items, loopItem{key: key, value: src[key]})
		}
	}
	return items
}

// resolveLoopSource looks up a loop declaration that is a single marker.
// Any other string is returned as is.
func resolveLoopSource(decl string, ctx any) any {
	loc := markerPattern.FindStringSubmatchIndex(decl)
	if loc == nil || loc[0] != 0 || loc[1] != len(decl) {
		return decl
	}
	if v, ok := Resolve(decl[loc[2]:loc[3]], ctx); ok && v != nil {
		return v
	}
	if loc[4] >= 0 {
		return decl[loc[4]+1 : loc[5]]
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
