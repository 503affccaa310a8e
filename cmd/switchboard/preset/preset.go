// Package presetcmder provides the `switchboard preset` commands.
package presetcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const presetLongDesc string = `Manage preset templates.

Presets are named base URLs offered when adding a provider with --preset.
Every tool ships built-in presets; user presets are stored with the tool's
providers and sync with them.`

func NewPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage preset templates",
		Long:    presetLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "list <tool>",
		Aliases:           []string{"ls"},
		Short:             "List built-in and user presets",
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

			presets, err := env.Store.ListPresets(t)
			if err != nil {
				return err
			}

			width := 0
			for _, p := range presets {
				width = max(width, len(p.Name))
			}

			out := cmd.OutOrStdout()
			for _, p := range presets {
				origin := "user"
				if p.IsBuiltIn {
					origin = "built-in"
				}
				fmt.Fprintf(out, "%-*s  %s  %s\n", width, p.Name, p.BaseURL, cliui.DimStyle.Render(origin))
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var preset provider.PresetTemplate

	cmd := &cobra.Command{
		Use:               "add <tool>",
		Short:             "Add a user preset",
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

			added, err := env.Store.AddPreset(t, preset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Added preset %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(added.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&preset.Name, "name", "", "Preset name")
	cmd.Flags().StringVar(&preset.BaseURL, "base-url", "", "API base URL")
	cmd.Flags().StringVar(&preset.Description, "desc", "", "Description")

	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <tool> <name>",
		Aliases:           []string{"rm"},
		Short:             "Remove a user preset",
		Args:              cobra.ExactArgs(2),
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

			if err := env.Store.RemovePreset(t, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Removed preset %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[1]))
			return nil
		},
	}
}
