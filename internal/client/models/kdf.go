// Package models contains the wire-level data model shared by the bwrs
// client layers: KDF configuration, two-factor providers, device metadata
// and session data.
package models

import (
	"fmt"

	"github.com/jack-weilage/bwrs/internal/common"
)

// KdfType identifies the password-stretching algorithm negotiated for an
// account. Wire values follow the Bitwarden identity API.
type KdfType int

const (
	KdfTypePBKDF2   KdfType = 0
	KdfTypeArgon2id KdfType = 1
)

// Server-supplied PBKDF2 iteration counts outside these bounds are treated
// as a malformed response rather than silently clamped. The lower bound
// rejects an obviously tampered response that would yield a weak key; the
// upper bound caps CPU burn.
const (
	MinPbkdf2Iterations = 5_000
	MaxPbkdf2Iterations = 2_000_000
)

// Argon2id cost bounds, same rationale as the PBKDF2 bounds. Memory is in
// KiB and is converted to bytes before the KDF call, so the memory bound
// also keeps memory*1024 within uint32 instead of wrapping to a tiny
// effective cost.
const (
	MaxArgon2Iterations = 10
	MaxArgon2MemoryKiB  = 1 << 20 // 1 GiB
)

// KdfConfig is the KDF descriptor returned by the prelogin endpoint.
// Memory (KiB) and Parallelism are only meaningful for Argon2id and must
// both be present there. The config is immutable once fetched and lives
// for a single login attempt.
type KdfConfig struct {
	Kind        KdfType `json:"kdf"`
	Iterations  uint32  `json:"kdfIterations"`
	Memory      *uint32 `json:"kdfMemory"`
	Parallelism *uint32 `json:"kdfParallelism"`
}

// Validate checks the configuration before any KDF work is done.
// Violations surface as common.ErrUnsupportedKdf; a bad server response
// must never be "fixed up" client-side.
func (c *KdfConfig) Validate() error {
	switch c.Kind {
	case KdfTypePBKDF2:
		if c.Iterations < MinPbkdf2Iterations || c.Iterations > MaxPbkdf2Iterations {
			return fmt.Errorf("%w: pbkdf2 iteration count %d out of range [%d, %d]",
				common.ErrUnsupportedKdf, c.Iterations, MinPbkdf2Iterations, MaxPbkdf2Iterations)
		}
	case KdfTypeArgon2id:
		if c.Iterations == 0 {
			return fmt.Errorf("%w: argon2id time cost must be at least 1", common.ErrUnsupportedKdf)
		}
		if c.Iterations > MaxArgon2Iterations {
			return fmt.Errorf("%w: argon2id time cost %d exceeds %d",
				common.ErrUnsupportedKdf, c.Iterations, MaxArgon2Iterations)
		}
		if c.Memory == nil || c.Parallelism == nil {
			return fmt.Errorf("%w: argon2id requires kdfMemory and kdfParallelism", common.ErrUnsupportedKdf)
		}
		if *c.Memory == 0 || *c.Parallelism == 0 {
			return fmt.Errorf("%w: argon2id memory and parallelism must be non-zero", common.ErrUnsupportedKdf)
		}
		if *c.Memory > MaxArgon2MemoryKiB {
			return fmt.Errorf("%w: argon2id memory %d KiB exceeds %d KiB",
				common.ErrUnsupportedKdf, *c.Memory, MaxArgon2MemoryKiB)
		}
	default:
		return fmt.Errorf("%w: unknown kdf kind %d", common.ErrUnsupportedKdf, c.Kind)
	}
	return nil
}
