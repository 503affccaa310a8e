package providercmder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/store"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const addLongDesc string = `Add a provider profile for a tool.

The base URL can be taken from a preset with --preset (see
"switchboard preset list <tool>"). Pass --use to switch to the new provider
right away.

Examples:
  switchboard provider add codex --name OpenRouter --base-url https://openrouter.ai/api/v1 --api-key sk-...
  switchboard provider add claude --preset "Kimi" --name kimi --api-key sk-... --use`

const addShortDesc string = "Add a provider profile"

type addCommander struct {
	input  store.Input
	preset string
	use    bool
}

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:               "add <tool>",
		Short:             addShortDesc,
		Long:              addLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: appenv.CompleteTool,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&cmder.input.Name, "name", "", "Provider name (unique per tool)")
	cmd.Flags().StringVar(&cmder.input.BaseURL, "base-url", "", "API base URL")
	cmd.Flags().StringVar(&cmder.input.APIKey, "api-key", "", "API key")
	cmd.Flags().StringVar(&cmder.input.Model, "model", "", "Model override")
	cmd.Flags().StringVar(&cmder.input.Desc, "desc", "", "Free-form description")
	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Take the base URL from a preset")
	cmd.Flags().BoolVar(&cmder.use, "use", false, "Switch to the provider after adding it")

	return cmd
}

func (c *addCommander) run(cmd *cobra.Command, toolArg string) error {
	t, err := tool.Parse(toolArg)
	if err != nil {
		return err
	}
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	in := c.input
	if c.preset != "" {
		preset, err := findPreset(env.Store, t, c.preset)
		if err != nil {
			return err
		}
		if in.BaseURL == "" {
			in.BaseURL = preset.BaseURL
		}
		if in.Name == "" {
			in.Name = preset.Name
		}
	}

	p, err := env.Store.Add(t, in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s Added %s to %s\n\n", cliui.SuccessMark, cliui.KeyStyle.Render(p.Name), t.DisplayName())

	if c.use {
		if _, err := env.Store.Switch(t, p.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s Switched %s to %s\n\n", cliui.SuccessMark, t.DisplayName(), cliui.KeyStyle.Render(p.Name))
	}
	return nil
}

func findPreset(s *store.Store, t tool.Tool, name string) (provider.PresetTemplate, error) {
	presets, err := s.ListPresets(t)
	if err != nil {
		return provider.PresetTemplate{}, err
	}
	i := slices.IndexFunc(presets, func(p provider.PresetTemplate) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return provider.PresetTemplate{}, &store.NotFoundError{Tool: t, Kind: "preset", Key: name}
	}
	return presets[i], nil
}
