package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the persistent switchboard configuration stored as config.toml
// in the switchboard root. It is machine-local and never synced.
type Config struct {
	Version int        `toml:"version"`
	Sync    SyncConfig `toml:"sync"`
	Log     LogConfig  `toml:"log"`
}

// SyncConfig holds the WebDAV endpoint and sync password.
type SyncConfig struct {
	WebDAVURL string `toml:"webdav_url,omitempty"`
	Username  string `toml:"username,omitempty"`
	Password  string `toml:"password,omitempty"`

	// AuthType is "basic" or "digest".
	AuthType  string `toml:"auth_type,omitempty"`
	RemoteDir string `toml:"remote_dir,omitempty"`

	// SyncPassword encrypts api keys before upload. It is independent of
	// the WebDAV credentials.
	SyncPassword string `toml:"sync_password,omitempty"`

	// PasswordStore selects where secrets live: "config" (this file) or
	// "keyring" (the OS credential store).
	PasswordStore  string `toml:"password_store,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`

	// LastSyncAt is the Unix millisecond time of the last successful sync.
	LastSyncAt int64 `toml:"last_sync_at,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool `toml:"debug,omitempty"`

	// File receives a JSON copy of every log record when set.
	File string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error

	// secret values are masked when listed and may live in the keyring.
	secret bool
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"sync.webdav_url": {
		get: func(c *Config) string { return c.Sync.WebDAVURL },
		set: func(c *Config, v string) error { c.Sync.WebDAVURL = strings.TrimSpace(v); return nil },
	},
	"sync.username": {
		get: func(c *Config) string { return c.Sync.Username },
		set: func(c *Config, v string) error { c.Sync.Username = v; return nil },
	},
	"sync.password": {
		get:    func(c *Config) string { return c.Sync.Password },
		set:    func(c *Config, v string) error { c.Sync.Password = v; return nil },
		secret: true,
	},
	"sync.auth_type": {
		get: func(c *Config) string { return c.Sync.AuthType },
		set: func(c *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != AuthBasic && v != AuthDigest {
				return fmt.Errorf("invalid value for sync.auth_type: %q (expected %s or %s)", v, AuthBasic, AuthDigest)
			}
			c.Sync.AuthType = v
			return nil
		},
	},
	"sync.remote_dir": {
		get: func(c *Config) string { return c.Sync.RemoteDir },
		set: func(c *Config, v string) error { c.Sync.RemoteDir = strings.Trim(strings.TrimSpace(v), "/"); return nil },
	},
	"sync.sync_password": {
		get:    func(c *Config) string { return c.Sync.SyncPassword },
		set:    func(c *Config, v string) error { c.Sync.SyncPassword = v; return nil },
		secret: true,
	},
	"sync.password_store": {
		get: func(c *Config) string { return c.Sync.PasswordStore },
		set: func(c *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != StoreConfig && v != StoreKeyring {
				return fmt.Errorf("invalid value for sync.password_store: %q (expected %s or %s)", v, StoreConfig, StoreKeyring)
			}
			c.Sync.PasswordStore = v
			return nil
		},
	},
	"sync.timeout_seconds": {
		get: func(c *Config) string {
			if c.Sync.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Sync.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid value for sync.timeout_seconds: %w", err)
			}
			c.Sync.TimeoutSeconds = uint(n)
			return nil
		},
	},
	"log.debug": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.Debug) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for log.debug: %w", err)
			}
			c.Log.Debug = b
			return nil
		},
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error {
			c.Log.File = strings.TrimSpace(v)
			return nil
		},
	},
}
