package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender Category = "render"
	CategoryParse  Category = "parse"
	CategoryStore  Category = "store"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// contextLines is how many page file lines are shown around a location.
const contextLines = 5

// Location represents a position in a page file.
type Location struct {
	File string
	Line int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// ScrapsError is a structured error with a code, location and hints.
type ScrapsError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (render, store, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the page file position the error refers to.
	Location *Location

	// Context contains surrounding lines of the page file.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ScrapsError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ScrapsError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at a line of a page file and loads the
// surrounding lines.
func (e *ScrapsError) WithLocation(file string, line int) *ScrapsError {
	e.Location = &Location{File: file, Line: line}
	if line > 0 {
		e.Context = readContextLines(file, line, contextLines)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ScrapsError) WithSuggestion(s string) *ScrapsError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *ScrapsError) WithDetail(d string) *ScrapsError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ScrapsError) Wrap(err error) *ScrapsError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a ScrapsError from a registered error code.
func New(code string) *ScrapsError {
	template, ok := registry[code]
	if !ok {
		return &ScrapsError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ScrapsError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new ScrapsError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ScrapsError {
	return &ScrapsError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ScrapsError. Errors that already
// carry a code are returned unchanged.
func FromError(err error, code string) *ScrapsError {
	if err == nil {
		return nil
	}
	var se *ScrapsError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}
