package main

import (
	"bytes"
	"io"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/errors"
	"github.com/scrapsdev/scraps/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		contextFile string
		assignments []string
		output      string
		css         bool
	)

	cmd := &cobra.Command{
		Use:   "render <file.space>",
		Short: "Render a page to HTML",
		Long: `Render a page file to a complete HTML document.

Markers such as {{name}} are filled from the render context: a YAML or
JSON file given with --context, plus any --var assignments, which win
over the file.

Examples:
  scraps render pages/index.space
  scraps render pages/index.space --context site.yaml --out public/index.html
  scraps render pages/post.space --var title=Hello --var author.name=Ada
  scraps render pages/index.space --css`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext(contextFile, assignments)
			if err != nil {
				return err
			}
			out, err := renderFile(args[0], ctx, css)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := atomic.WriteFile(output, bytes.NewReader([]byte(out))); err != nil {
				return errors.New("E103").Wrap(err)
			}
			success("Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&contextFile, "context", "c", "", "Render context file (.yaml, .yml or .json)")
	cmd.Flags().StringArrayVar(&assignments, "var", nil, "Set a context value (name=value, repeatable)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&css, "css", false, "Print the page stylesheet instead of HTML")

	return cmd
}

// renderFile renders the page at path as HTML, or as CSS when css is set.
func renderFile(path string, ctx map[string]any, css bool) (string, error) {
	values, _, err := readPage(path)
	if err != nil {
		return "", err
	}
	page := render.NewPage(values)
	if css {
		return page.Stylesheet(ctx), nil
	}
	html, err := page.Render(ctx)
	if err != nil {
		return "", pageError(path, err)
	}
	return html, nil
}
