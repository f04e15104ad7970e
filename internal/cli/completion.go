package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a completion script for bash, zsh or fish.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for gitbump. Dependency names are not completed,
only commands and flags.

  bash:  source <(gitbump completion bash)
  zsh:   gitbump completion zsh > "${fpath[1]}/_gitbump"
  fish:  gitbump completion fish > ~/.config/fish/completions/gitbump.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenBashCompletion(out)
			}
		},
	}
}
