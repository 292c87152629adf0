package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell and source it from your
shell's startup file.

  bash:       source <(pomedit completion bash)
  zsh:        pomedit completion zsh > "${fpath[1]}/_pomedit"
  fish:       pomedit completion fish > ~/.config/fish/completions/pomedit.fish
  powershell: pomedit completion powershell | Out-String | Invoke-Expression

Zsh needs compinit enabled ("autoload -U compinit; compinit" in ~/.zshrc).`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
