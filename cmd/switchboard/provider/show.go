package providercmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const showShortDesc string = "Show a provider profile"

func newShowCmd() *cobra.Command {
	var showKey bool

	cmd := &cobra.Command{
		Use:               "show <tool> <name>",
		Short:             showShortDesc,
		Long:              showShortDesc + ". The API key is masked unless --show-key is set.",
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
			current, _, err := env.Store.Current(t)
			if err != nil {
				return err
			}

			printProvider(cmd.OutOrStdout(), p, current.ID == p.ID, showKey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKey, "show-key", false, "Print the API key in full")

	return cmd
}
