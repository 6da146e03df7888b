// Package common defines shared constants and sentinel errors used across
// the bwrs client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// KDF negotiation errors.
	ErrUnsupportedKdf = errors.New("unsupported kdf configuration")

	// Key derivation errors (invalid primitive parameters).
	ErrDerivation = errors.New("key derivation failed")

	// Credential errors reported by the identity service.
	ErrInvalidCredentials = errors.New("username or password is incorrect")

	// Two-factor errors.
	ErrInvalidTwoFactorToken        = errors.New("two-factor token is invalid")
	ErrUnsupportedTwoFactorProvider = errors.New("two-factor provider is not supported by this client")
	ErrTooManyTwoFactorAttempts     = errors.New("too many two-factor attempts")

	// Session state errors.
	ErrNotLoggedIn = errors.New("not logged in")
)
