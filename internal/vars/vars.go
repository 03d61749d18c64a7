// Package vars loads render contexts from YAML or JSON files and
// command-line assignments.
package vars

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scrapsdev/scraps/internal/errors"
)

// Load reads a render context from path. The format is chosen by file
// extension: .yaml and .yml are YAML, .json is JSON.
func Load(path string) (map[string]any, error) {
	format := strings.ToLower(filepath.Ext(path))
	switch format {
	case ".yaml", ".yml", ".json":
	default:
		return nil, errors.New("E151").
			WithDetail(fmt.Sprintf("%s has extension %q", path, format))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E150").WithDetail(path).Wrap(err)
	}

	ctx, err := Parse(data, format)
	if err != nil {
		return nil, errors.New("E150").WithDetail(path).Wrap(err)
	}
	return ctx, nil
}

// Parse decodes a render context. format is a file extension such as
// ".yaml" or ".json". An empty document yields an empty context.
func Parse(data []byte, format string) (map[string]any, error) {
	var raw any
	switch format {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".json":
		if len(strings.TrimSpace(string(data))) == 0 {
			return map[string]any{}, nil
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported context format %q", format)
	}

	if raw == nil {
		return map[string]any{}, nil
	}
	ctx, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("context must be a mapping, got %T", raw)
	}
	return ctx, nil
}

// normalize converts YAML's map[any]any into map[string]any so the
// renderer's path lookup can walk every level.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			v[k] = normalize(child)
		}
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[fmt.Sprint(k)] = normalize(child)
		}
		return m
	case []any:
		for i, child := range v {
			v[i] = normalize(child)
		}
		return v
	}
	return v
}

// Assign parses a name=value assignment and stores value in ctx. A
// dotted name creates nested maps, so "site.title=Home" sets
// ctx["site"]["title"].
func Assign(ctx map[string]any, assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok || name == "" {
		return errors.New("E152").WithDetail(fmt.Sprintf("%q is not name=value", assignment))
	}

	parts := strings.Split(name, ".")
	current := ctx
	for _, part := range parts[:len(parts)-1] {
		if part == "" {
			return errors.New("E152").WithDetail(fmt.Sprintf("%q has an empty path segment", name))
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	last := parts[len(parts)-1]
	if last == "" {
		return errors.New("E152").WithDetail(fmt.Sprintf("%q has an empty path segment", name))
	}
	current[last] = value
	return nil
}
