package config

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name entries are filed under in the OS
// credential store.
const keyringService = "switchboard"

// SecretStore holds credentials outside config.toml.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// KeyringStore keeps secrets in the OS keyring (macOS Keychain, Secret
// Service, Windows Credential Manager).
type KeyringStore struct{}

// Get returns the stored value, or "" when nothing is stored.
func (KeyringStore) Get(key string) (string, error) {
	v, err := keyring.Get(keyringService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Set stores value; an empty value removes the entry.
func (KeyringStore) Set(key, value string) error {
	if value == "" {
		err := keyring.Delete(keyringService, key)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	return keyring.Set(keyringService, key, value)
}
