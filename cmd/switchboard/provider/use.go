package providercmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const useLongDesc string = `Switch a tool to a provider.

Writes the provider into the tool's native config files. Only the fields
switchboard owns are changed; the first time a file is modified a one-off
.bak copy of the original is kept next to it.

Examples:
  switchboard provider use codex OpenRouter`

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "use <tool> <name>",
		Aliases:           []string{"switch"},
		Short:             "Switch a tool to a provider",
		Long:              useLongDesc,
		Args:              cobra.ExactArgs(2),
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

			p, err := env.Store.Apply(t, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s Switched %s to %s\n", cliui.SuccessMark, t.DisplayName(), cliui.KeyStyle.Render(p.Name))

			paths, err := env.Store.NativePaths(t)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintf(out, "    %s\n", cliui.DimStyle.Render(path))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	return cmd
}
