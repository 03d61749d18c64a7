package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrapsdev/scraps/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new site",
		Long: fmt.Sprintf(`Create scraps.json and starter pages in dir (default: the current
directory). Existing files are never overwritten.

Templates: %s

Examples:
  scraps init
  scraps init docs --template blog --title "Team Handbook"`, strings.Join(templates.List(), ", ")),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(abs, templates.Config{Name: filepath.Base(abs), Title: title}); err != nil {
				return err
			}
			success("Created %s site in %s", tmpl.Name, abs)
			fmt.Fprintf(cmd.OutOrStdout(), "\n  scraps serve --dir %s --dev\n\n", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Site template")
	cmd.Flags().StringVar(&title, "title", "", "Site title (default: directory name)")

	return cmd
}
