package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/scrapsdev/scraps/pkg/space"
)

// markerPattern matches {{name}} and {{name placeholder text}}.
var markerPattern = regexp.MustCompile(`\{\{([_a-zA-Z0-9.]+)( [^}]+)?\}\}`)

// marker is one {{...}} occurrence in a text.
type marker struct {
	text        string // the whole marker, braces included
	name        string
	placeholder string
	hasDefault  bool
}

// replaceMarkers calls fn for every marker in text and splices in its
// result. Replacements are not scanned again.
func replaceMarkers(text string, fn func(m marker) string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	matches := markerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, loc := range matches {
		m := marker{
			text: text[loc[0]:loc[1]],
			name: text[loc[2]:loc[3]],
		}
		if loc[4] >= 0 {
			m.placeholder = text[loc[4]+1 : loc[5]]
			m.hasDefault = true
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(fn(m))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// Replace fills every marker in text from ctx. A marker whose value is
// missing or empty becomes its placeholder, or nothing.
func Replace(text string, ctx any) string {
	return replaceMarkers(text, func(m marker) string {
		if v, ok := Resolve(m.name, ctx); ok {
			if s, ok := scalar(v); ok {
				return s
			}
		}
		return m.placeholder
	})
}

// scalar formats a context value for substitution. It reports false for
// nil, the empty string and composite values, which all count as
// missing. Zero numbers and false are real values.
func scalar(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case *space.Space, Layers, map[string]any, map[string]string, []any, []string:
		return "", false
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int8, int16, int32, uint, uint8, uint16, uint32:
		return fmt.Sprint(x), true
	case fmt.Stringer:
		s := x.String()
		return s, s != ""
	}
	return "", false
}

// StyleToInline renders a style space as the value of a style attribute,
// e.g. "color: red; margin: 0;".
func StyleToInline(style *space.Space, ctx any) string {
	var b strings.Builder
	eachProperty(style, func(property, value string) {
		b.WriteString(property)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	})
	return strings.TrimRight(Replace(b.String(), ctx), " ")
}

// StyleToCSS renders a style space as a CSS rule for selector.
func StyleToCSS(selector string, style *space.Space, ctx any) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	eachProperty(style, func(property, value string) {
		b.WriteString("  ")
		b.WriteString(property)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	})
	b.WriteString("}\n")
	return Replace(b.String(), ctx)
}

// eachProperty visits string properties in declaration order with one
// trailing semicolon removed from the value.
func eachProperty(style *space.Space, fn func(property, value string)) {
	style.Each(func(key string, value any) {
		v, ok := value.(string)
		if !ok {
			return
		}
		fn(key, strings.TrimSuffix(v, ";"))
	})
}
