package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/pipeline"
	"github.com/matzehuels/pomedit/pkg/render"
)

// graphOptions holds the flags of the graph command.
type graphOptions struct {
	format    string
	input     string
	output    string
	top       string
	direction string
	detailed  bool
	refresh   bool
}

// graphCommand creates the graph command rendering the parent hierarchy.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph [pom.xml|dir]",
		Short: "Render the parent hierarchy as a diagram",
		Long: `Render the parent hierarchy of a POM with Graphviz.

The format is taken from --format, else from the -o file extension, else svg.
Rendered diagrams are cached by content; --refresh renders again.`,
		Example: `  pomedit graph services/api -o hierarchy.svg
  pomedit graph --input chain.json --format dot
  pomedit graph -o hierarchy.png --detailed --direction LR`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png, json")
	cmd.Flags().StringVar(&opts.input, "input", "", "render a hierarchy JSON file instead of scanning")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.top, "top-level", "", "directory bounding the parent search")
	cmd.Flags().StringVar(&opts.direction, "direction", "", "layout direction: BT, TB, LR, RL")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include groupId, packaging and section counts")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "render even if a cached diagram exists")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, args []string, opts graphOptions) error {
	ctx := cmd.Context()

	gopts := pipeline.GraphOptions{
		Input:     opts.input,
		Format:    opts.format,
		Detailed:  opts.detailed,
		Direction: opts.direction,
		Refresh:   opts.refresh,
	}
	if gopts.Format == "" && opts.output != "" {
		gopts.Format = render.FormatFromPath(opts.output)
	}

	projectDir := "."
	if opts.input == "" {
		target, err := resolveTarget(args, 0)
		if err != nil {
			return err
		}
		gopts.Target = target
		projectDir = filepath.Dir(target)
	}

	cfg, err := c.loadConfig(projectDir)
	if err != nil {
		return err
	}
	if gopts.Target != "" {
		gopts.TopLevel = topLevel(opts.top, cfg)
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Graph(ctx, gopts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(opts.output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	note := ""
	if res.CacheHit {
		note = StyleDim.Render(" (cached)")
	}
	printSuccess("Rendered %d POM(s)%s", len(res.Hierarchy.Nodes), note)
	printDetail("%s", opts.output)
	return nil
}
