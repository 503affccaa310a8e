package config

const (
	AuthBasic  = "basic"
	AuthDigest = "digest"

	StoreConfig  = "config"
	StoreKeyring = "keyring"

	defaultAuthType       = AuthBasic
	defaultRemoteDir      = "switchboard"
	defaultPasswordStore  = StoreConfig
	defaultTimeoutSeconds = 30
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Sync: SyncConfig{
			AuthType:       defaultAuthType,
			RemoteDir:      defaultRemoteDir,
			PasswordStore:  defaultPasswordStore,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
	}
}
