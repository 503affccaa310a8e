package providercmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

func newCurrentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "current <tool>",
		Short:             "Show the active provider of a tool",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: appenv.CompleteTool,
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

			p, ok, err := env.Store.Current(t)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No active provider for %s.\n", t.DisplayName())
				return nil
			}

			printProvider(cmd.OutOrStdout(), p, true, false)
			return nil
		},
	}

	return cmd
}
