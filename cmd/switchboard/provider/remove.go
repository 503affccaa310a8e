package providercmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const removeLongDesc string = `Remove a provider profile.

Removing the active provider leaves the tool without an active provider;
its native config is not touched.`

func newRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "remove <tool> <name>",
		Aliases:           []string{"rm", "delete"},
		Short:             "Remove a provider profile",
		Long:              removeLongDesc,
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

			p, err := env.Store.Get(t, args[1])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := cliui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Remove %s from %s?", p.Name, t.DisplayName()))
				if err != nil {
					return err
				}
				if !ok {
					return cliui.ErrAborted
				}
			}

			if err := env.Store.Delete(t, p.Name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Removed %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(p.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
