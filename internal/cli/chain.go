package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pomio "github.com/matzehuels/pomedit/pkg/io"
	"github.com/matzehuels/pomedit/pkg/pipeline"
)

// chainCommand creates the chain command printing a POM's parent chain.
func (c *CLI) chainCommand() *cobra.Command {
	var (
		jsonOut bool
		output  string
		top     string
	)

	cmd := &cobra.Command{
		Use:   "chain [pom.xml|dir]",
		Short: "Show the parent POMs a module inherits from",
		Long: `Show the chain of parent POMs found by following <parent><relativePath>,
starting at the given POM. The walk stops at the first parent that is missing,
outside the top-level directory, or does not match the declared artifactId.

With -o the chain is saved as hierarchy JSON for "pomedit graph --input".`,
		Example: `  pomedit chain services/api
  pomedit chain services/api -o chain.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			target, err := resolveTarget(args, 0)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig(filepath.Dir(target))
			if err != nil {
				return err
			}

			base := topLevel(top, cfg)
			runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
			p, err := runner.Scan(ctx, target, base)
			if err != nil {
				return err
			}
			if base == "" {
				base = filepath.Dir(target)
			}
			if abs, err := filepath.Abs(base); err == nil {
				base = abs
			}
			h := pomio.FromProject(p, base)

			if output != "" {
				if err := pomio.ExportJSON(h, output); err != nil {
					return err
				}
				printSuccess("Saved %d POM(s)", len(h.Nodes))
				printDetail("%s", output)
				return nil
			}
			if jsonOut {
				return pomio.WriteJSON(h, cmd.OutOrStdout())
			}

			w := cmd.OutOrStdout()
			for i, n := range h.Nodes {
				prefix := ""
				if i > 0 {
					prefix = strings.Repeat("  ", i-1) + iconArrow + " "
				}
				packaging := n.Packaging
				if packaging == "" {
					packaging = "jar"
				}
				fmt.Fprintf(w, "%s%s %s %s\n", prefix, StyleValue.Render(n.Label()), StyleDim.Render(n.ID), StyleDim.Render("("+packaging+")"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print hierarchy JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save hierarchy JSON to a file")
	cmd.Flags().StringVar(&top, "top-level", "", "directory bounding the parent search")

	return cmd
}
