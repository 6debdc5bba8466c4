package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tdavis6/myqrkit/internal/output"
	"github.com/tdavis6/myqrkit/internal/payload"
)

func newTypesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported data types and their output formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, err := buildContext(cmd, opts, "types")
			if err != nil {
				return err
			}
			infos := payload.TypeInfos()
			if p.EffectiveSuccessMode() == output.ModePlain && len(p.Fields) == 0 {
				for _, t := range infos {
					_, _ = fmt.Fprintf(p.Out, "%-6s %-17s %s\n", t.Type, t.Format, t.Description)
				}
				return nil
			}
			return p.Success(infos, map[string]any{"count": len(infos)}, nil)
		},
	}
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := strings.ToLower(args[0])
			switch shell {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return Wrap(exitInvalidUsage, fmt.Errorf("unsupported shell: %s", shell))
			}
		},
	}
}
