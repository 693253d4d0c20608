package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// PassCodeAlphabet is the symbol set used for generated passcodes: 36
// lowercase alphanumerics. A 6-character passcode drawn from it carries
// about 31 bits of entropy, a deliberate usability/security trade-off for
// a secret that humans read out loud.
const PassCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// MakeURLSafeToken generates an unpadded base64url token from size random
// bytes. The resulting string length is ceil(size*4/3); 15 bytes yield a
// 20-character token with 120 bits of entropy.
//
// It returns an error if the random number generator fails.
func MakeURLSafeToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MakePassCode generates a human-typeable passcode of the given length
// drawn uniformly from PassCodeAlphabet. Random bytes at or above the
// largest multiple of the alphabet size that fits in a byte are discarded
// and redrawn, so no symbol is more likely than another.
func MakePassCode(length int) (string, error) {
	const limit = 256 - 256%len(PassCodeAlphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("rand read: %w", err)
		}
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			out = append(out, PassCodeAlphabet[int(v)%len(PassCodeAlphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for removing passcodes and derived keys from memory after
// use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
