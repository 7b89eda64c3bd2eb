package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for trailbulk and write it to stdout.

Source the script, or install it where your shell loads completions from:

Bash:
  # Current session only:
  $ source <(trailbulk completion bash)

  # All sessions (Linux):
  $ trailbulk completion bash > /etc/bash_completion.d/trailbulk
  # All sessions (macOS with Homebrew):
  $ trailbulk completion bash > $(brew --prefix)/etc/bash_completion.d/trailbulk

Zsh:
  # Completions must be enabled once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # Then install the script and start a new shell:
  $ trailbulk completion zsh > "${fpath[1]}/_trailbulk"

Fish:
  # Current session only:
  $ trailbulk completion fish | source

  # All sessions:
  $ trailbulk completion fish > ~/.config/fish/completions/trailbulk.fish

PowerShell:
  PS> trailbulk completion powershell | Out-String | Invoke-Expression

  # All sessions: save the script and source it from your profile:
  PS> trailbulk completion powershell > trailbulk.ps1
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion generation needs no config file or logging setup, so
		// skip the parent's PersistentPreRunE
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion generates the completion script for the specified shell
func runCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()

	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}
