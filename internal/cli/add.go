package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/config"
	"github.com/matzehuels/pomedit/pkg/pipeline"
	"github.com/matzehuels/pomedit/pkg/pom"
)

// addOptions holds the flags of the add command.
type addOptions struct {
	useProperties bool
	skipIfNewer   bool
	dryRun        bool
	insertOnly    bool
	interactive   bool
	refresh       bool
	depType       string
	topLevel      string
	profiles      []string
}

// addCommand creates the add command for inserting or upgrading a dependency.
func (c *CLI) addCommand() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <groupId:artifactId[:version[:scope]]> [pom.xml|dir]",
		Short: "Add or upgrade a dependency",
		Long: `Add a dependency to a pom.xml, or upgrade it if the POM already declares it.

The version is pinned in <dependencyManagement> and the dependency itself is
listed under <dependencies>. With --use-properties the version goes into a
versions.<artifactId> property of the root-most parent POM instead.

Without a version, the latest release on Maven Central is used.`,
		Example: `  # Add JUnit to ./pom.xml
  pomedit add org.junit.jupiter:junit-jupiter:5.10.2:test

  # Preview the change for a module, versioned through a parent property
  pomedit add com.google.guava:guava services/api --use-properties --dry-run

  # Import a BOM
  pomedit add io.netty:netty-bom:4.1.108.Final:import --type pom

  # Pick the module interactively
  pomedit add org.slf4j:slf4j-api -i`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.useProperties, "use-properties", "p", false, "write the version as a property in the root-most parent")
	cmd.Flags().BoolVar(&opts.skipIfNewer, "skip-if-newer", false, "leave an existing newer version alone")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print a diff instead of writing files")
	cmd.Flags().BoolVar(&opts.insertOnly, "insert-only", false, "never upgrade an existing declaration")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the module to edit from a list")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached Maven Central lookups")
	cmd.Flags().StringVar(&opts.depType, "type", "", "dependency type (pom requires scope import)")
	cmd.Flags().StringVar(&opts.topLevel, "top-level", "", "directory bounding the parent search (default: nearest .pomedit.toml or the POM's directory)")
	cmd.Flags().StringSliceVar(&opts.profiles, "profile", nil, "active Maven profiles (prefix with ! to deactivate)")

	return cmd
}

func (c *CLI) runAdd(cmd *cobra.Command, args []string, opts addOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	target, err := c.addTarget(args, opts)
	if err != nil || target == "" {
		return err
	}

	cfg, err := c.loadConfig(filepath.Dir(target))
	if err != nil {
		return err
	}
	applyAddFlags(cmd, &opts, cfg)

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	coord, err := pom.ParseCoordinate(args[0])
	if err != nil {
		return err
	}
	if coord.Version == "" {
		spin := startSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Looking up latest %s...", coord.Key()))
		coord, err = runner.ResolveCoordinate(ctx, args[0], opts.refresh)
		spin.Stop()
		if err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	res, err := runner.Modify(ctx, pipeline.ModifyOptions{
		Target:   target,
		TopLevel: topLevel(opts.topLevel, cfg),
		DryRun:   opts.dryRun,
		EditOptions: pipeline.EditOptions{
			Coordinate:     coord.String(),
			Type:           opts.depType,
			UseProperties:  opts.useProperties,
			SkipIfNewer:    opts.skipIfNewer,
			ActiveProfiles: opts.profiles,
			InsertOnly:     opts.insertOnly,
		},
	})
	if err != nil {
		return err
	}

	if len(res.Files) == 0 {
		printInfo("%s is already up to date in %s", res.Coordinate, target)
		return nil
	}

	if opts.dryRun {
		for _, f := range res.Files {
			writeDiff(cmd.OutOrStdout(), f.Diff)
		}
		return nil
	}

	prog.done(fmt.Sprintf("Edited %d file(s)", len(res.Files)))
	printSuccess("Added %s", StyleHighlight.Render(res.Coordinate.String()))
	for _, f := range res.Files {
		printFile(f.Path, f.Added, f.Removed)
	}
	if res.JournalID != "" && cfg.Journal.Keep > 0 {
		if n, err := runner.Journal.Prune(ctx, cfg.Journal.Keep); err != nil {
			logger.Warn("journal prune failed", "err", err)
		} else if n > 0 {
			logger.Debug("pruned journal", "removed", n)
		}
	}
	if res.JournalID != "" {
		printNextStep("Revert with", "pomedit undo "+res.JournalID)
	}
	return nil
}

// addTarget resolves the POM to edit, asking interactively with -i.
func (c *CLI) addTarget(args []string, opts addOptions) (string, error) {
	if !opts.interactive {
		return resolveTarget(args, 1)
	}
	root := "."
	if len(args) > 1 {
		root = args[1]
	}
	if opts.topLevel != "" {
		root = opts.topLevel
	}
	target, err := pickModule(root, opts.depType == "pom")
	if err != nil {
		return "", err
	}
	if target == "" {
		printWarning("No module selected")
	}
	return target, nil
}

// applyAddFlags fills unset flags from the configuration.
func applyAddFlags(cmd *cobra.Command, opts *addOptions, cfg config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("use-properties") {
		opts.useProperties = cfg.UseProperties
	}
	if !flags.Changed("skip-if-newer") {
		opts.skipIfNewer = cfg.SkipIfNewer
	}
	if !flags.Changed("profile") {
		opts.profiles = cfg.ActiveProfiles
	}
}
