// Package switchboardcmder
package switchboardcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/switchboard/cmd/switchboard/config"
	presetcmder "github.com/papercomputeco/switchboard/cmd/switchboard/preset"
	providercmder "github.com/papercomputeco/switchboard/cmd/switchboard/provider"
	synccmder "github.com/papercomputeco/switchboard/cmd/switchboard/sync"
	versioncmder "github.com/papercomputeco/switchboard/cmd/version"
	"github.com/papercomputeco/switchboard/pkg/config"
)

const switchboardLongDesc string = `Switchboard switches AI coding CLIs between API providers.

Keep named provider profiles (base URL, API key, model) for Codex, Claude
Code, Gemini CLI, OpenCode and OpenClaw, and switch a tool between them
without disturbing the rest of its config:
  switchboard provider add codex --name OpenRouter --base-url ... --api-key ...
  switchboard provider use codex OpenRouter

Profiles can be synced between machines through any WebDAV server, with API
keys encrypted end to end:
  switchboard sync merge`

const switchboardShortDesc string = "Switchboard - AI CLI provider switcher"

func NewSwitchboardCmd() *cobra.Command {
	var (
		debug   bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:           "switchboard",
		Short:         switchboardShortDesc,
		Long:          switchboardLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().String("config-dir", "", "Override path to the switchboard root (default ~/.switchboard)")
	config.AddPersistentBoolFlag(cmd, config.GlobalFlags, config.FlagDebug, &debug)
	config.AddPersistentStringFlag(cmd, config.GlobalFlags, config.FlagLogFile, &logFile)

	// Add subcommands
	cmd.AddCommand(providercmder.NewProviderCmd())
	cmd.AddCommand(presetcmder.NewPresetCmd())
	cmd.AddCommand(synccmder.NewSyncCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
