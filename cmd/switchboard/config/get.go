package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from config.toml, or from the OS keyring
for secrets when sync.password_store is "keyring". Secrets are masked unless
--show-secret is given.

Examples:
  switchboard config get sync.webdav_url
  switchboard config get sync.sync_password --show-secret`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	var showSecret bool

	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             getShortDesc,
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd, args[0], configDir, showSecret)
		},
	}

	cmd.Flags().BoolVar(&showSecret, "show-secret", false, "Print secret values in full")

	return cmd
}

func runGet(cmd *cobra.Command, key, configDir string, showSecret bool) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}
	if !showSecret {
		value = display(key, value)
	}

	out := cmd.OutOrStdout()
	if value == "" {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render("<not set>"))
	} else {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	}

	return nil
}
