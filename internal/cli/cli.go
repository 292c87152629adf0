package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/buildinfo"
	"github.com/matzehuels/pomedit/pkg/cache"
	"github.com/matzehuels/pomedit/pkg/config"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/journal"
	"github.com/matzehuels/pomedit/pkg/observability"
	"github.com/matzehuels/pomedit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pomedit"

	// defaultTarget is the POM used when no path is given.
	defaultTarget = "pom.xml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the log-backed
// observability hooks are installed.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pomedit adds and upgrades dependencies in Maven pom.xml files",
		Long: `pomedit edits Maven pom.xml files without reformatting them. It inserts or
upgrades dependencies across a module's parent chain, optionally through
version properties, and queries the effective dependency set.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pomedit/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the Maven Central response cache")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.chainCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration and Runner Factory
// =============================================================================

// loadConfig merges the user config and the project config nearest to
// projectDir.
func (c *CLI) loadConfig(projectDir string) (config.Config, error) {
	userPath := c.configPath
	if userPath == "" {
		p, err := config.UserPath()
		if err == nil {
			userPath = p
		}
	}
	cfg, sources, err := config.Load(userPath, projectDir)
	if err != nil {
		return config.Config{}, err
	}
	for _, s := range sources {
		c.Logger.Debug("loaded config", "path", s)
	}
	return cfg, nil
}

// openCache returns the configured cache, or a NullCache with --no-cache.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	return cfg.OpenCache(ctx)
}

// newRunner creates a pipeline runner with Maven Central lookups and the
// undo journal wired in.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, loggerFromContext(ctx))
	r.Maven = cfg.MavenClient(store)

	j, err := openJournal(cfg)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Journal = j
	return r, nil
}

func openJournal(cfg config.Config) (*journal.FileStore, error) {
	return journal.NewFileStore(cfg.Journal.Dir)
}

// =============================================================================
// Paths
// =============================================================================

// resolveTarget turns a command argument into a pom.xml path. A directory
// means its pom.xml; no argument means ./pom.xml.
func resolveTarget(args []string, index int) (string, error) {
	path := defaultTarget
	if len(args) > index && args[index] != "" {
		path = args[index]
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "pom not found: %s", path)
	}
	if info.IsDir() {
		path = filepath.Join(path, defaultTarget)
		if _, err := os.Stat(path); err != nil {
			return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "pom not found: %s", path)
		}
	}
	if err := errs.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return "", err
	}
	return path, nil
}

// topLevel picks the --top-level flag over the configured value.
func topLevel(flag string, cfg config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.TopLevel
}
