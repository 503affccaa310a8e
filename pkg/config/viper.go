package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
)

// EnvPrefix prefixes every environment override, e.g.
// SWITCHBOARD_SYNC_WEBDAV_URL.
const EnvPrefix = "SWITCHBOARD"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from the
// resolved switchboard root, and binds SWITCHBOARD_ environment variables.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (SWITCHBOARD_SYNC_WEBDAV_URL, SWITCHBOARD_LOG_DEBUG, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. Every registry key gets a default so
// AutomaticEnv can resolve it.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("sync.webdav_url", d.Sync.WebDAVURL)
	v.SetDefault("sync.username", d.Sync.Username)
	v.SetDefault("sync.password", d.Sync.Password)
	v.SetDefault("sync.auth_type", d.Sync.AuthType)
	v.SetDefault("sync.remote_dir", d.Sync.RemoteDir)
	v.SetDefault("sync.sync_password", d.Sync.SyncPassword)
	v.SetDefault("sync.password_store", d.Sync.PasswordStore)
	v.SetDefault("sync.timeout_seconds", d.Sync.TimeoutSeconds)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// SyncFromViper overlays the effective (flag > env > file) sync settings
// from v onto base, keeping base's keyring-resolved secrets when v has none.
func SyncFromViper(v *viper.Viper, base SyncConfig) SyncConfig {
	out := base
	out.WebDAVURL = v.GetString("sync.webdav_url")
	out.Username = v.GetString("sync.username")
	out.AuthType = v.GetString("sync.auth_type")
	out.RemoteDir = v.GetString("sync.remote_dir")
	out.TimeoutSeconds = v.GetUint("sync.timeout_seconds")
	if s := v.GetString("sync.password"); s != "" {
		out.Password = s
	}
	if s := v.GetString("sync.sync_password"); s != "" {
		out.SyncPassword = s
	}
	return out
}
