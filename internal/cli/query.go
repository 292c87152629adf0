package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/pipeline"
	"github.com/matzehuels/pomedit/pkg/pom"
)

// queryOptions holds the flags of the query command.
type queryOptions struct {
	permissive bool
	jsonOut    bool
	topLevel   string
	profiles   []string
}

// queryCommand creates the query command listing effective dependencies.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [pom.xml|dir]",
		Short: "List the effective dependencies of a POM",
		Long: `List the dependencies a POM declares, with versions resolved through its
parents' <dependencyManagement> sections and properties.

In strict mode (the default) a <dependency> without groupId or artifactId is
an error. --permissive skips such entries instead.`,
		Example: `  pomedit query
  pomedit query services/api --profile ci --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.permissive, "permissive", false, "skip malformed <dependency> entries")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print JSON")
	cmd.Flags().StringVar(&opts.topLevel, "top-level", "", "directory bounding the parent search")
	cmd.Flags().StringSliceVar(&opts.profiles, "profile", nil, "active Maven profiles (prefix with ! to deactivate)")

	return cmd
}

func (c *CLI) runQuery(cmd *cobra.Command, args []string, opts queryOptions) error {
	ctx := cmd.Context()

	target, err := resolveTarget(args, 0)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(filepath.Dir(target))
	if err != nil {
		return err
	}

	mode := cfg.Mode()
	if cmd.Flags().Changed("permissive") {
		mode = pom.QueryStrict
		if opts.permissive {
			mode = pom.QueryPermissive
		}
	}
	profiles := opts.profiles
	if !cmd.Flags().Changed("profile") {
		profiles = cfg.ActiveProfiles
	}

	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	res, err := runner.Query(ctx, pipeline.QueryOptions{
		Target:         target,
		TopLevel:       topLevel(opts.topLevel, cfg),
		Mode:           mode,
		ActiveProfiles: profiles,
	})
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return writeJSON(cmd.OutOrStdout(), dependencyRows(res.Dependencies))
	}
	if len(res.Dependencies) == 0 {
		printInfo("No dependencies in %s", target)
		return nil
	}
	writeDependencyTable(cmd.OutOrStdout(), res.Dependencies)
	return nil
}

// dependencyRow is the JSON form of one resolved dependency.
type dependencyRow struct {
	GroupID    string `json:"group_id"`
	ArtifactID string `json:"artifact_id"`
	Version    string `json:"version"`
	Scope      string `json:"scope,omitempty"`
	Type       string `json:"type,omitempty"`
}

func dependencyRows(deps []pom.Coordinate) []dependencyRow {
	rows := make([]dependencyRow, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, dependencyRow{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
			Scope:      d.Scope,
			Type:       d.Type,
		})
	}
	return rows
}

func writeDependencyTable(w io.Writer, deps []pom.Coordinate) {
	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []string{d.GroupID, d.ArtifactID, d.Version, d.EffectiveScope(), d.EffectiveType()})
	}

	t := newTable([]string{"Group", "Artifact", "Version", "Scope", "Type"}, rows, 2)
	fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
