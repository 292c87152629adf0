package cli

import (
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/pipeline"
)

// versionsCommand creates the versions command reporting Java levels.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		jsonOut bool
		top     string
	)

	cmd := &cobra.Command{
		Use:   "versions [pom.xml|dir]",
		Short: "Show the Java source and target levels of a POM",
		Long: `Show the Java source and target levels a POM compiles for. Levels come from
the maven.compiler.* properties or the maven-compiler-plugin configuration,
inherited through the parent chain.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveTarget(args, 0)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig(filepath.Dir(target))
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context()))
			res, err := runner.Versions(cmd.Context(), target, topLevel(top, cfg))
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"source": versionString(res.Source),
					"target": versionString(res.Target),
				})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "source  %s\n", orUnknown(res.Source))
			fmt.Fprintf(w, "target  %s\n", orUnknown(res.Target))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	cmd.Flags().StringVar(&top, "top-level", "", "directory bounding the parent search")

	return cmd
}

func versionString(v *semver.Version) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func orUnknown(v *semver.Version) string {
	if v == nil {
		return StyleDim.Render("unknown")
	}
	return StyleValue.Render(v.String())
}
