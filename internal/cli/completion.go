package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bpm.

Bash:
  $ source <(bpm completion bash)

Zsh:
  $ bpm completion zsh > "${fpath[1]}/_bpm"

Fish:
  $ bpm completion fish > ~/.config/fish/completions/bpm.fish

PowerShell:
  PS> bpm completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.out)
			}
			return nil
		},
	}
}

// completeInstalled completes ids of packages present in the exec directory.
func (c *CLI) completeInstalled(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	entries, err := os.ReadDir(c.config().ExecDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	taken := make(map[string]bool, len(args))
	for _, a := range args {
		taken[a] = true
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || taken[name] || strings.HasPrefix(name, ".") || !strings.HasPrefix(name, toComplete) {
			continue
		}
		ids = append(ids, name)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
