// Package crypto encrypts provider api keys for transport. Only the apiKey
// field is touched; every other field travels in clear text.
//
// An encrypted value looks like
//
//	enc:v1:<base64(salt || nonce || ciphertext)>
//
// The key is derived from the sync password with Argon2id. A fresh salt is
// drawn for every EncryptProviders call and carried in each value, so any
// value can be decrypted on its own.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/papercomputeco/switchboard/pkg/provider"
)

// Prefix marks an encrypted apiKey.
const Prefix = "enc:v1:"

const (
	saltLen = 16
	keyLen  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// IsEncrypted reports whether v carries the encryption prefix.
func IsEncrypted(v string) bool {
	return strings.HasPrefix(v, Prefix)
}

// EncryptProviders returns a copy of providers with every non-empty apiKey
// encrypted under password.
func EncryptProviders(providers []provider.Provider, password string) ([]provider.Provider, error) {
	if password == "" {
		return nil, &provider.ValidationError{Field: "syncPassword", Reason: "is required"}
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	aead, err := newAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(providers)
	for i := range out {
		if out[i].APIKey == "" {
			continue
		}
		sealed, err := seal(aead, salt, out[i].APIKey)
		if err != nil {
			return nil, fmt.Errorf("encrypting provider %s: %w", out[i].ID, err)
		}
		out[i].APIKey = sealed
	}
	return out, nil
}

// DecryptProviders reverses EncryptProviders. A value without the prefix,
// an undecodable value or a failed authentication yields a
// *DecryptionError.
func DecryptProviders(providers []provider.Provider, password string) ([]provider.Provider, error) {
	if password == "" {
		return nil, &provider.ValidationError{Field: "syncPassword", Reason: "is required"}
	}

	// Values from one upload share a salt; derive each key once.
	keys := map[string]cipher.AEAD{}

	out := slices.Clone(providers)
	for i := range out {
		if out[i].APIKey == "" {
			continue
		}
		plain, err := open(keys, password, out[i].APIKey)
		if err != nil {
			var derr *DecryptionError
			if errors.As(err, &derr) {
				derr.ProviderID = out[i].ID
			}
			return nil, err
		}
		out[i].APIKey = plain
	}
	return out, nil
}

func newAEAD(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

func seal(aead cipher.AEAD, salt []byte, plain string) (string, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	buf := make([]byte, 0, len(salt)+len(nonce)+len(plain)+aead.Overhead())
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = aead.Seal(buf, nonce, []byte(plain), nil)
	return Prefix + base64.StdEncoding.EncodeToString(buf), nil
}

func open(keys map[string]cipher.AEAD, password, value string) (string, error) {
	if !IsEncrypted(value) {
		return "", &DecryptionError{Reason: ReasonMalformed, Err: errors.New("value is not encrypted")}
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", &DecryptionError{Reason: ReasonMalformed, Err: fmt.Errorf("invalid encoding: %w", err)}
	}

	// GCM's standard nonce is 12 bytes.
	const nonceLen = 12
	if len(raw) < saltLen+nonceLen+16 {
		return "", &DecryptionError{Reason: ReasonMalformed, Err: errors.New("value too short")}
	}

	salt := raw[:saltLen]
	aead, ok := keys[string(salt)]
	if !ok {
		aead, err = newAEAD(password, salt)
		if err != nil {
			return "", err
		}
		keys[string(salt)] = aead
	}

	nonce := raw[saltLen : saltLen+aead.NonceSize()]
	plain, err := aead.Open(nil, nonce, raw[saltLen+aead.NonceSize():], nil)
	if err != nil {
		return "", &DecryptionError{Reason: ReasonWrongPassword, Err: err}
	}
	return string(plain), nil
}
