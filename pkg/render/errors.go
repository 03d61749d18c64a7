package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateExpansion matches every TemplateExpansionError with errors.Is.
var ErrTemplateExpansion = errors.New("render: template expansion failed")

// TemplateExpansionError reports a loop iteration whose filled-in
// template could not be turned back into scraps.
type TemplateExpansionError struct {
	// Path is the path of the scrap that declares the loop.
	Path []string

	// Key is the loop item being expanded.
	Key string

	// Err is the underlying substitution or parse error.
	Err error
}

func (e *TemplateExpansionError) Error() string {
	return fmt.Sprintf("render: expanding loop %q at item %q: %v",
		strings.Join(e.Path, " "), e.Key, e.Err)
}

func (e *TemplateExpansionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrTemplateExpansion.
func (e *TemplateExpansionError) Is(target error) bool {
	return target == ErrTemplateExpansion
}
