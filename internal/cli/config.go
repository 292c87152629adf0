package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomedit/pkg/config"
)

// configCommand creates the config command printing the effective settings.
func (c *CLI) configCommand() *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration in effect for the current directory as TOML.

Settings are layered: built-in defaults, then the user file
($XDG_CONFIG_HOME/pomedit/config.toml), then the nearest ` + config.ProjectFile + `
found by walking up from the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return c.printConfigSources(cmd)
			}
			cfg, err := c.loadConfig(".")
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "list the files that were merged")

	return cmd
}

func (c *CLI) printConfigSources(cmd *cobra.Command) error {
	userPath := c.configPath
	if userPath == "" {
		if p, err := config.UserPath(); err == nil {
			userPath = p
		}
	}
	_, loaded, err := config.Load(userPath, ".")
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "defaults")
	for _, s := range loaded {
		fmt.Fprintln(w, s)
	}
	if userPath != "" && !contains(loaded, userPath) {
		if _, err := os.Stat(userPath); err != nil {
			fmt.Fprintln(w, StyleDim.Render(userPath+" (not found)"))
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
