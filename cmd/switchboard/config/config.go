// Package configcmder provides the config command for managing persistent
// switchboard configuration stored in the switchboard root.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/provider"
)

const configLongDesc string = `Manage persistent switchboard configuration.

Configuration is stored as config.toml in ~/.switchboard (or --config-dir,
or $SWITCHBOARD_HOME) and provides default values for command flags. CLI
flags and SWITCHBOARD_* environment variables take precedence over config
file values.

Keys use dotted notation matching the TOML section structure:
  sync.webdav_url, sync.username, sync.password, sync.auth_type,
  sync.remote_dir, sync.sync_password, sync.password_store,
  sync.timeout_seconds, log.debug

Set sync.password_store to "keyring" to keep sync.password and
sync.sync_password in the OS credential store instead of config.toml.

Examples:
  switchboard config set sync.webdav_url https://dav.example.com/dav
  switchboard config set sync.sync_password
  switchboard config get sync.remote_dir
  switchboard config list`

const configShortDesc string = "Manage persistent switchboard configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// display masks secret values.
func display(key, value string) string {
	if config.IsSecretKey(key) {
		return provider.MaskKey(value)
	}
	return value
}
