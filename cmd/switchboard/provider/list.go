package providercmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const listLongDesc string = `List the provider profiles of a tool, newest first.

The active provider is marked with "*". API keys are masked.

Examples:
  switchboard provider list codex`

const listShortDesc string = "List provider profiles"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "list <tool>",
		Aliases:           []string{"ls"},
		Short:             listShortDesc,
		Long:              listLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: appenv.CompleteTool,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0])
		},
	}

	return cmd
}

func runList(cmd *cobra.Command, toolArg string) error {
	t, err := tool.Parse(toolArg)
	if err != nil {
		return err
	}
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	providers, err := env.Store.List(t)
	if err != nil {
		return err
	}
	current, _, err := env.Store.Current(t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(providers) == 0 {
		fmt.Fprintf(out, "No providers for %s. Add one with: switchboard provider add %s\n", t.DisplayName(), t)
		return nil
	}

	nameWidth := 0
	for _, p := range providers {
		nameWidth = max(nameWidth, len(p.Name))
	}

	for _, p := range providers {
		marker := " "
		name := fmt.Sprintf("%-*s", nameWidth, p.Name)
		if p.ID == current.ID {
			marker = cliui.CurrentStyle.Render("*")
			name = cliui.CurrentStyle.Render(name)
		}

		line := fmt.Sprintf("%s %s  %s  %s", marker, name, p.BaseURL, cliui.DimStyle.Render(provider.MaskKey(p.APIKey)))
		if p.Model != "" {
			line += "  " + cliui.ValueStyle.Render(p.Model)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
