package render

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Formatter converts literal content into HTML.
type Formatter func(text string) string

// contentFormats maps content_format values to formatters. Unknown or
// empty formats pass content through unchanged.
var contentFormats = map[string]Formatter{
	"html":     passThrough,
	"text":     passThrough,
	"nl2br":    nl2br,
	"markdown": markdown,
}

// Format converts text according to a content_format value.
func Format(text, format string) string {
	if f, ok := contentFormats[format]; ok {
		return f(text)
	}
	return text
}

func passThrough(text string) string {
	return text
}

func nl2br(text string) string {
	return strings.ReplaceAll(text, "\n", "<br>")
}

// The markdown converter is configured once and shared; goldmark keeps
// per-call state in the parse, not in the Markdown value.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return markdownInstance
}

func markdown(text string) string {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(text), &buf); err != nil {
		return text
	}
	return buf.String()
}
