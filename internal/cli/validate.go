package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/form"
)

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			doc, err := form.ReadFile(path)
			if err != nil {
				printError("%s is not a valid document", path)
				return err
			}

			printSuccess("%s is valid", path)
			printDetail("title: %s", doc.Title)
			printDetail("nodes: %d", doc.Body.Count())
			printDetail("schema: %d", doc.Schema)
			return nil
		},
	}
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %[1]s.

To load completions:

Bash:
  $ source <(%[1]s completion bash)

Zsh:
  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:
  $ %[1]s completion fish | source

PowerShell:
  PS> %[1]s completion powershell | Out-String | Invoke-Expression
`, appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
