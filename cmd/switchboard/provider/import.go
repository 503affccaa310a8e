package providercmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/credentials"
	"github.com/papercomputeco/switchboard/pkg/store"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const importLongDesc string = `Import the provider a tool is configured with today.

Reads the base URL, API key and model from the tool's native config and
saves them as a provider, which becomes the active one. Use this once per
tool to keep a hand-made setup before switching away from it.

Examples:
  switchboard provider import claude --name "My Anthropic"`

const defaultImportName = "default"

func newImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:               "import <tool>",
		Short:             "Import the tool's current native config as a provider",
		Long:              importLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: appenv.CompleteTool,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Provider name (default: the tool's provider key, or \"default\")")

	return cmd
}

func runImport(cmd *cobra.Command, toolArg, name string) error {
	t, err := tool.Parse(toolArg)
	if err != nil {
		return err
	}
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	live, err := credentials.Detect(env.Registry, t)
	if errors.Is(err, credentials.ErrNotConfigured) {
		return fmt.Errorf("%s: nothing to import, no base URL and API key configured", t.DisplayName())
	}
	if err != nil {
		return err
	}

	if name == "" {
		name = live.Key
	}
	if name == "" {
		name = defaultImportName
	}

	p, err := env.Store.Add(t, store.Input{
		Name:    name,
		BaseURL: live.BaseURL,
		APIKey:  live.APIKey,
		Model:   live.Model,
		Desc:    "imported from " + t.DisplayName(),
	})
	if err != nil {
		return err
	}
	if _, err := env.Store.Switch(t, p.ID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Imported %s as %s\n\n", cliui.SuccessMark, t.DisplayName(), cliui.KeyStyle.Render(p.Name))
	printProvider(cmd.OutOrStdout(), p, true, false)
	return nil
}
