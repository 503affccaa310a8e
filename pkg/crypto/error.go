package crypto

import "fmt"

// Reason classifies a DecryptionError.
type Reason int

const (
	// ReasonWrongPassword means authentication failed: the password is wrong
	// or the ciphertext was tampered with.
	ReasonWrongPassword Reason = iota + 1

	// ReasonMalformed means the value is not a well-formed encrypted string.
	ReasonMalformed
)

// DecryptionError is returned by DecryptProviders. The message never
// includes key material.
type DecryptionError struct {
	ProviderID string
	Reason     Reason
	Err        error
}

func (e *DecryptionError) Error() string {
	msg := "wrong password or corrupted data"
	if e.ProviderID != "" {
		msg = fmt.Sprintf("%s (provider %s)", msg, e.ProviderID)
	}
	if e.Reason == ReasonMalformed && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DecryptionError) Unwrap() error { return e.Err }
