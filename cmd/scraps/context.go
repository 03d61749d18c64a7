package main

import (
	stderrors "errors"
	"os"

	"github.com/scrapsdev/scraps/internal/errors"
	"github.com/scrapsdev/scraps/internal/vars"
	"github.com/scrapsdev/scraps/pkg/render"
	"github.com/scrapsdev/scraps/pkg/space"
)

// loadContext reads the render context file, if any, and applies the
// --var assignments on top of it.
func loadContext(path string, assignments []string) (map[string]any, error) {
	ctx := make(map[string]any)
	if path != "" {
		loaded, err := vars.Load(path)
		if err != nil {
			return nil, err
		}
		ctx = loaded
	}
	for _, a := range assignments {
		if err := vars.Assign(ctx, a); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}

// readPage parses a page file. Parse failures point at the offending
// line.
func readPage(path string) (*space.Space, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.New("E101").Wrap(err)
		}
		return nil, "", errors.New("E102").Wrap(err)
	}
	text := string(data)
	page, err := space.Parse(text)
	if err != nil {
		return nil, text, pageError(path, err)
	}
	return page, text, nil
}

// pageError turns a parse or render failure of the page at path into a
// coded error.
func pageError(path string, err error) *errors.ScrapsError {
	var pe *space.ParseError
	switch {
	case stderrors.As(err, &pe):
		return errors.New("E002").Wrap(err).WithLocation(path, pe.Line)
	case stderrors.Is(err, render.ErrTemplateExpansion):
		return errors.New("E001").Wrap(err).WithLocation(path, 0)
	default:
		return errors.FromError(err, "E102")
	}
}
