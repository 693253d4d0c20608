// Package common defines shared sentinel errors and random-token helpers
// used across CipherDrop components. Callers should use errors.Is to match
// the sentinel values.
package common

import "errors"

var (
	// Credential / crypto errors.
	ErrKeyDerivation     = errors.New("key derivation failed")
	ErrDecryption        = errors.New("decryption failed")
	ErrInvalidCredential = errors.New("invalid share id or passcode")

	// Share lifecycle errors.
	ErrShareNotFound = errors.New("share not found")
	ErrShareExpired  = errors.New("share expired")

	// Local index errors.
	ErrLocalIndex = errors.New("local index error")
)
