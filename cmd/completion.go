package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:                   "completion [bash|zsh|fish|powershell]",
	Short:                 "Generate completion script",
	Long:                  completionUsage(),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			zshHead := "#compdef evcs-smoke\ncompdef _evcs-smoke evcs-smoke\n"
			if _, err := os.Stdout.Write([]byte(zshHead)); err != nil {
				return err
			}
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		return nil
	},
}

func completionUsage() string {
	return fmt.Sprintf(`To load completions:

Bash:

  $ source <(%[1]s completion bash)

Zsh:

  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:

  $ %[1]s completion fish | source

PowerShell:

  PS> %[1]s completion powershell | Out-String | Invoke-Expression
`, "evcs-smoke")
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
