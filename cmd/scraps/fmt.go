package main

import (
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/errors"
)

func fmtCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt <files...>",
		Short: "Rewrite page files in canonical form",
		Long: `Rewrite page files in canonical space form.

Blank lines and Windows line endings are dropped and multi-line values
are re-indented. Files are replaced atomically. With --check nothing is
written; files that would change are listed and the command fails.

Examples:
  scraps fmt pages/*.space
  scraps fmt --check pages/*.space`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var changed []string
			for _, path := range args {
				canonical, differs, err := formatFile(path)
				if err != nil {
					return err
				}
				if !differs {
					continue
				}
				changed = append(changed, path)
				if check {
					fmt.Fprintln(cmd.OutOrStdout(), path)
					continue
				}
				if err := atomic.WriteFile(path, strings.NewReader(canonical)); err != nil {
					return errors.New("E103").Wrap(err)
				}
			}

			if check && len(changed) > 0 {
				return errors.Newf(errors.CategoryCLI, "%d file(s) not formatted", len(changed))
			}
			if !check && len(changed) > 0 {
				success("Formatted %d file(s)", len(changed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "List unformatted files without rewriting them")

	return cmd
}

// formatFile returns the canonical text of the page at path and whether
// it differs from what is on disk.
func formatFile(path string) (string, bool, error) {
	values, text, err := readPage(path)
	if err != nil {
		return "", false, err
	}
	canonical := values.String()
	return canonical, canonical != text, nil
}
