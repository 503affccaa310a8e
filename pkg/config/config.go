package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

const (
	configFile = "config.toml"

	// v0 is the first version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
	secrets    SecretStore
}

// NewConfiger resolves the switchboard root (override, $SWITCHBOARD_HOME,
// ~/.switchboard) and returns a Configer for its config.toml.
func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{secrets: KeyringStore{}}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfger.targetPath = path

	return cfger, nil
}

// WithSecretStore replaces the keyring backend.
func (c *Configer) WithSecretStore(s SecretStore) *Configer {
	c.secrets = s
	return c
}

// ValidConfigKeys returns all supported configuration key names in the
// order they appear in config.toml.
func ValidConfigKeys() []string {
	ordered := []string{
		"sync.webdav_url",
		"sync.username",
		"sync.password",
		"sync.auth_type",
		"sync.remote_dir",
		"sync.sync_password",
		"sync.password_store",
		"sync.timeout_seconds",
		"log.debug",
		"log.file",
	}

	result := make([]string, 0, len(ordered))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// IsSecretKey reports whether key holds a credential.
func IsSecretKey(key string) bool {
	return configKeys[key].secret
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml. A missing file yields NewDefaultConfig();
// fields left unset in the file are filled from the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Sync.AuthType == "" {
		cfg.Sync.AuthType = defaults.Sync.AuthType
	}
	if cfg.Sync.RemoteDir == "" {
		cfg.Sync.RemoteDir = defaults.Sync.RemoteDir
	}
	if cfg.Sync.PasswordStore == "" {
		cfg.Sync.PasswordStore = defaults.Sync.PasswordStore
	}
	if cfg.Sync.TimeoutSeconds == 0 {
		cfg.Sync.TimeoutSeconds = defaults.Sync.TimeoutSeconds
	}
}

// SaveConfig persists cfg to config.toml with owner-only permissions.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := fsutil.AtomicWrite(c.targetPath, buf.Bytes(), fsutil.FileMode); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Secrets go to the keyring instead of the file when sync.password_store is
// "keyring".
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if info.secret && cfg.Sync.PasswordStore == StoreKeyring {
		if err := c.secrets.Set(key, value); err != nil {
			return fmt.Errorf("storing %s in keyring: %w", key, err)
		}
		// never keep a stale copy in the file
		_ = info.set(cfg, "")
		return c.SaveConfig(cfg)
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}
	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	if info.secret && cfg.Sync.PasswordStore == StoreKeyring {
		return c.secrets.Get(key)
	}
	return info.get(cfg), nil
}

// ResolveSync returns the sync settings with secrets read from wherever
// sync.password_store points.
func (c *Configer) ResolveSync(cfg *Config) (SyncConfig, error) {
	out := cfg.Sync
	if out.PasswordStore != StoreKeyring {
		return out, nil
	}

	var err error
	if out.Password, err = c.secrets.Get("sync.password"); err != nil {
		return SyncConfig{}, fmt.Errorf("reading sync.password from keyring: %w", err)
	}
	if out.SyncPassword, err = c.secrets.Get("sync.sync_password"); err != nil {
		return SyncConfig{}, fmt.Errorf("reading sync.sync_password from keyring: %w", err)
	}
	return out, nil
}

// RecordSync stores the time of a successful sync.
func (c *Configer) RecordSync(at time.Time) error {
	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Sync.LastSyncAt = at.UnixMilli()
	return c.SaveConfig(cfg)
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
