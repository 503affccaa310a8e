package providercmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const cloneLongDesc string = `Copy a provider profile under a new name.

Field flags override the copied values.

Examples:
  switchboard provider clone codex OpenRouter "OpenRouter (gpt-5)" --model openai/gpt-5`

func newCloneCmd() *cobra.Command {
	flags := &patchFlags{}

	cmd := &cobra.Command{
		Use:               "clone <tool> <source> <new-name>",
		Short:             "Copy a provider profile",
		Long:              cloneLongDesc,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: appenv.CompleteProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tool.Parse(args[0])
			if err != nil {
				return err
			}
			env, err := appenv.Load(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			p, err := env.Store.Clone(t, args[1], args[2], flags.patch(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Cloned %s as %s\n", cliui.SuccessMark, args[1], cliui.KeyStyle.Render(p.Name))
			return nil
		},
	}

	flags.register(cmd, false)

	return cmd
}
