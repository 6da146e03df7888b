// Package state persists the small amount of client state that survives
// between runs: the device identifier, the last authenticated account and
// its session token, and the local verification hash. Key material is
// never written here.
package state

import "context"

// Well-known state keys.
const (
	KeyDeviceIdentifier = "device_identifier"
	KeyEmail            = "email"
	KeyAccessToken      = "access_token"
	KeyRefreshToken     = "refresh_token"
	KeyTokenExpiresAt   = "token_expires_at"
	KeyLocalVerifier    = "local_verifier"
)

// Pair is one key/value entry for batched writes.
type Pair struct {
	Key   string
	Value []byte
}

// Repository is a key/value store for client state.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error

	// SetMany persists all pairs atomically.
	SetMany(ctx context.Context, pairs []Pair) error

	// Clear removes every row, the device identifier included; callers
	// that need it afterwards must re-persist it.
	Clear(ctx context.Context) error
}
