package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/common"
)

func uint32p(v uint32) *uint32 { return &v }

func pbkdf2Config(iterations uint32) *models.KdfConfig {
	return &models.KdfConfig{Kind: models.KdfTypePBKDF2, Iterations: iterations}
}

func argon2Config() *models.KdfConfig {
	return &models.KdfConfig{
		Kind:        models.KdfTypeArgon2id,
		Iterations:  3,
		Memory:      uint32p(64),
		Parallelism: uint32p(4),
	}
}

func TestDeriveMasterKey_Pbkdf2Deterministic(t *testing.T) {
	password := []byte("correct horse battery staple")
	email := []byte("user@example.com")

	a, err := DeriveMasterKey(password, email, pbkdf2Config(5000))
	require.NoError(t, err)
	b, err := DeriveMasterKey(password, email, pbkdf2Config(5000))
	require.NoError(t, err)

	require.Len(t, a, MasterKeySize)
	require.Equal(t, a, b)
}

func TestDeriveMasterKey_Pbkdf2SaltMatters(t *testing.T) {
	password := []byte("hunter2hunter2")

	a, err := DeriveMasterKey(password, []byte("a@example.com"), pbkdf2Config(5000))
	require.NoError(t, err)
	b, err := DeriveMasterKey(password, []byte("b@example.com"), pbkdf2Config(5000))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestDeriveMasterKey_Pbkdf2IterationBounds(t *testing.T) {
	for _, iterations := range []uint32{0, 1, models.MinPbkdf2Iterations - 1, models.MaxPbkdf2Iterations + 1} {
		_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), pbkdf2Config(iterations))
		require.ErrorIs(t, err, common.ErrUnsupportedKdf, "iterations=%d", iterations)
	}
}

func TestDeriveMasterKey_Argon2id(t *testing.T) {
	key, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), argon2Config())
	require.NoError(t, err)
	require.Len(t, key, MasterKeySize)

	again, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), argon2Config())
	require.NoError(t, err)
	require.Equal(t, key, again)
}

func TestDeriveMasterKey_Argon2idMissingParams(t *testing.T) {
	cfg := argon2Config()
	cfg.Memory = nil
	_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)

	cfg = argon2Config()
	cfg.Parallelism = nil
	_, err = DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)
}

func TestDeriveMasterKey_Argon2idZeroParallelism(t *testing.T) {
	cfg := argon2Config()
	cfg.Parallelism = uint32p(0)
	_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)
}

func TestDeriveMasterKey_Argon2idHugeParallelism(t *testing.T) {
	cfg := argon2Config()
	cfg.Parallelism = uint32p(300)
	_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrDerivation)
}

func TestDeriveMasterKey_Argon2idExcessiveMemory(t *testing.T) {
	// 4 GiB in KiB. The byte conversion would wrap uint32 to zero, so the
	// KDF would silently run at its internal minimum instead of the
	// demanded cost. Must be rejected before any derivation work.
	cfg := argon2Config()
	cfg.Iterations = 1
	cfg.Memory = uint32p(4 * 1024 * 1024)
	cfg.Parallelism = uint32p(1)

	key, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)
	require.Nil(t, key)
}

func TestDeriveMasterKey_Argon2idExcessiveTimeCost(t *testing.T) {
	cfg := argon2Config()
	cfg.Iterations = models.MaxArgon2Iterations + 1
	_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)
}

func TestDeriveMasterKey_UnknownKind(t *testing.T) {
	cfg := &models.KdfConfig{Kind: models.KdfType(7), Iterations: 5000}
	_, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), cfg)
	require.ErrorIs(t, err, common.ErrUnsupportedKdf)
}

func TestStretch_DistinctSubKeys(t *testing.T) {
	masterKey, err := DeriveMasterKey([]byte("pw"), []byte("e@x.com"), pbkdf2Config(5000))
	require.NoError(t, err)

	keys, err := Stretch(masterKey)
	require.NoError(t, err)

	require.Len(t, keys.EncryptionKey, SubKeySize)
	require.Len(t, keys.MacKey, SubKeySize)
	require.False(t, bytes.Equal(keys.EncryptionKey, keys.MacKey), "enc and mac keys must differ")
	require.False(t, bytes.Equal(keys.EncryptionKey, masterKey), "enc key must not alias the master key")
	require.False(t, bytes.Equal(keys.MacKey, masterKey), "mac key must not alias the master key")
}

func TestStretch_Deterministic(t *testing.T) {
	masterKey := bytes.Repeat([]byte{0x42}, MasterKeySize)

	a, err := Stretch(masterKey)
	require.NoError(t, err)
	b, err := Stretch(masterKey)
	require.NoError(t, err)

	require.Equal(t, a.EncryptionKey, b.EncryptionKey)
	require.Equal(t, a.MacKey, b.MacKey)
}

func TestStretch_BadKeyLength(t *testing.T) {
	_, err := Stretch(make([]byte, 16))
	require.ErrorIs(t, err, common.ErrDerivation)
}

func TestHashMasterKey_PurposesDiffer(t *testing.T) {
	masterKey := bytes.Repeat([]byte{0x01}, MasterKeySize)
	password := []byte("pw")

	server, err := HashMasterKey(masterKey, password, HashPurposeServerAuthorization)
	require.NoError(t, err)
	local, err := HashMasterKey(masterKey, password, HashPurposeLocalAuthorization)
	require.NoError(t, err)

	require.Len(t, server, SubKeySize)
	require.Len(t, local, SubKeySize)
	require.NotEqual(t, server, local)
}

func TestHashMasterKey_Idempotent(t *testing.T) {
	masterKey := bytes.Repeat([]byte{0x02}, MasterKeySize)
	password := []byte("pw")

	a, err := HashMasterKey(masterKey, password, HashPurposeServerAuthorization)
	require.NoError(t, err)
	b, err := HashMasterKey(masterKey, password, HashPurposeServerAuthorization)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestHashMasterKey_UnknownPurpose(t *testing.T) {
	_, err := HashMasterKey(make([]byte, MasterKeySize), []byte("pw"), HashPurpose(3))
	require.True(t, errors.Is(err, common.ErrDerivation))
}

func TestKeysWipe(t *testing.T) {
	keys := &Keys{
		EncryptionKey: bytes.Repeat([]byte{0xAA}, SubKeySize),
		MacKey:        bytes.Repeat([]byte{0xBB}, SubKeySize),
	}
	keys.Wipe()
	require.Equal(t, make([]byte, SubKeySize), keys.EncryptionKey)
	require.Equal(t, make([]byte, SubKeySize), keys.MacKey)
}
