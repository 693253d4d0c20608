// Package cryptox implements the passcode-derived encryption engine:
// PBKDF2 key derivation and an AES-GCM codec for share metadata.
//
// Key derivation is deterministic on purpose: the salt is a fixed public
// constant, so the same passcode always yields the same key and ciphertexts
// remain decryptable by anyone holding the passcode, with no extra state
// travelling next to the ciphertext. Key strength therefore rests entirely
// on passcode entropy and the iteration count. A per-share random salt
// would be stronger but would have to be transmitted unencrypted alongside
// the metadata object, changing the remote object format.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/okorolev/cipherdrop/internal/common"
)

const (
	// kdfSalt is a fixed, publicly known salt constant. See the package
	// comment for the trade-off.
	kdfSalt = "cipherdrop.share.v1"

	kdfIterations = 100_000
	keySize       = 32
	nonceSize     = 12
)

// DeriveKey turns a passcode into a 256-bit AES key using PBKDF2-SHA256.
// Identical passcodes always produce identical keys. The returned key is
// only meant for EncryptJSON/DecryptJSON; callers should wipe it after use.
func DeriveKey(passCode string) ([]byte, error) {
	if passCode == "" {
		return nil, fmt.Errorf("%w: empty passcode", common.ErrKeyDerivation)
	}
	return pbkdf2.Key([]byte(passCode), []byte(kdfSalt), kdfIterations, keySize, sha256.New), nil
}

// EncryptJSON serializes v to JSON and encrypts it with AES-GCM under key.
// A fresh random 12-byte nonce is drawn per call and prepended to the
// ciphertext, so the result is a single opaque blob safe to store as an
// object body.
func EncryptJSON(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	// nonce || ciphertext, GCM tag implicit in Seal output.
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptJSON splits the nonce off blob, opens the AES-GCM ciphertext with
// key and unmarshals the plaintext JSON into v.
//
// Every failure mode that depends on the input (truncated blob, tag
// mismatch, wrong key) wraps common.ErrDecryption, so a wrong passcode is
// indistinguishable from a corrupted object. Callers surface this as a
// single invalid-credential condition.
func DecryptJSON(blob, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("new gcm: %w", err)
	}

	if len(blob) < nonceSize {
		return fmt.Errorf("%w: input too short", common.ErrDecryption)
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}
	return nil
}
