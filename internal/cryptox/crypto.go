// Package cryptox implements the password key-derivation pipeline: master
// key derivation (PBKDF2 or Argon2id), HKDF expansion into independent
// encryption and MAC keys, and the two protocol auth hashes.
package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/common"
)

const (
	// MasterKeySize is the length of the key derived from the password.
	MasterKeySize = 32

	// SubKeySize is the length of each stretched sub-key.
	SubKeySize = 32
)

// Keys holds the two sub-keys expanded from the master key. The encryption
// key unlocks the synced vault; the MAC key authenticates vault ciphertexts.
// Call Wipe when the keys are no longer needed.
type Keys struct {
	EncryptionKey []byte
	MacKey        []byte
}

// Wipe zeroes both sub-keys.
func (k *Keys) Wipe() {
	common.WipeByteArray(k.EncryptionKey)
	common.WipeByteArray(k.MacKey)
}

// HashPurpose selects the fixed PBKDF2 iteration count for an auth hash.
// The values are protocol constants, not negotiated parameters: the server
// hash and the local hash must stay cryptographically distinguishable even
// though both derive from the same master key.
type HashPurpose int

const (
	HashPurposeServerAuthorization HashPurpose = 1
	HashPurposeLocalAuthorization  HashPurpose = 2
)

// DeriveMasterKey stretches the password into a 32-byte master key using the
// negotiated KDF configuration. For PBKDF2 the salt is the email as entered;
// for Argon2id the salt is SHA-256 of the email and version 0x13 is used.
//
// The configuration is validated before any CPU-heavy work; a bad
// server-supplied parameter is rejected, never clamped.
func DeriveMasterKey(password, email []byte, cfg *models.KdfConfig) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing kdf configuration", common.ErrUnsupportedKdf)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case models.KdfTypePBKDF2:
		return pbkdf2.Key(password, email, int(cfg.Iterations), MasterKeySize, sha256.New), nil

	case models.KdfTypeArgon2id:
		if *cfg.Parallelism > math.MaxUint8 {
			return nil, fmt.Errorf("%w: argon2id parallelism %d exceeds %d",
				common.ErrDerivation, *cfg.Parallelism, math.MaxUint8)
		}
		salt := sha256.Sum256(email)
		key := argon2.IDKey(password, salt[:], cfg.Iterations, *cfg.Memory*1024,
			uint8(*cfg.Parallelism), MasterKeySize)
		return key, nil

	default:
		return nil, fmt.Errorf("%w: unknown kdf kind %d", common.ErrUnsupportedKdf, cfg.Kind)
	}
}

// Stretch expands the 32-byte master key into an encryption key and a MAC
// key via HKDF-SHA256 with no salt, using the master key as the
// pseudorandom key and the info labels "enc" and "mac". The expansion is
// deterministic: identical input yields byte-identical output.
func Stretch(masterKey []byte) (*Keys, error) {
	if len(masterKey) != MasterKeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d",
			common.ErrDerivation, MasterKeySize, len(masterKey))
	}

	encKey, err := hkdfExpand(masterKey, "enc")
	if err != nil {
		return nil, err
	}
	macKey, err := hkdfExpand(masterKey, "mac")
	if err != nil {
		return nil, err
	}
	return &Keys{EncryptionKey: encKey, MacKey: macKey}, nil
}

func hkdfExpand(prk []byte, info string) ([]byte, error) {
	out := make([]byte, SubKeySize)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("%w: hkdf expand %q: %v", common.ErrDerivation, info, err)
	}
	return out, nil
}

// HashMasterKey computes an auth hash: PBKDF2-HMAC-SHA256 over the master
// key salted with the password, with the purpose's fixed iteration count.
// The server hash is sent over the wire to prove password knowledge; the
// local hash stays client-side for verification without network access.
func HashMasterKey(masterKey, password []byte, purpose HashPurpose) ([]byte, error) {
	switch purpose {
	case HashPurposeServerAuthorization, HashPurposeLocalAuthorization:
	default:
		return nil, fmt.Errorf("%w: unknown hash purpose %d", common.ErrDerivation, purpose)
	}
	return pbkdf2.Key(masterKey, password, int(purpose), SubKeySize, sha256.New), nil
}
