package providercmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/store"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const editLongDesc string = `Edit fields of a provider profile.

Only the flags given are changed. Editing the active provider rewrites the
tool's native config so it picks up the new values.

Examples:
  switchboard provider edit codex OpenRouter --api-key sk-new
  switchboard provider edit claude kimi --model ""`

func newEditCmd() *cobra.Command {
	flags := &patchFlags{}

	cmd := &cobra.Command{
		Use:               "edit <tool> <name>",
		Short:             "Edit a provider profile",
		Long:              editLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: appenv.CompleteProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], args[1], flags.patch(cmd))
		},
	}

	flags.register(cmd, true)

	return cmd
}

func runEdit(cmd *cobra.Command, toolArg, name string, patch store.Patch) error {
	t, err := tool.Parse(toolArg)
	if err != nil {
		return err
	}
	if patch == (store.Patch{}) {
		return errors.New("nothing to change: pass at least one of --name, --base-url, --api-key, --model, --desc")
	}
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	p, err := env.Store.Update(t, name, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Updated %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(p.Name))

	current, ok, err := env.Store.Current(t)
	if err != nil {
		return err
	}
	if ok && current.ID == p.ID {
		if _, err := env.Store.ReapplyCurrent(t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s Re-applied to %s\n", cliui.SuccessMark, t.DisplayName())
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
