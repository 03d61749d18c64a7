package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/errors"
)

func checkCmd() *cobra.Command {
	var (
		contextFile string
		assignments []string
	)

	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Validate page files",
		Long: `Parse every page file and render it once, discarding the output.

Each failure is reported with its error code and, for parse errors, the
offending line. The command fails if any file does.

Examples:
  scraps check pages/*.space
  scraps check --context site.yaml pages/*.space`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext(contextFile, assignments)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				if _, err := renderFile(path, ctx, false); err != nil {
					failed++
					errors.PrintError(cmd.ErrOrStderr(), err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %s\n", path)
			}

			if failed > 0 {
				return errors.Newf(errors.CategoryCLI, "%d of %d file(s) failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&contextFile, "context", "c", "", "Render context file (.yaml, .yml or .json)")
	cmd.Flags().StringArrayVar(&assignments, "var", nil, "Set a context value (name=value, repeatable)")

	return cmd
}
