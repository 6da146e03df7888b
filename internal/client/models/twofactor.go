package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jack-weilage/bwrs/internal/common"
)

// TwoFactorProvider is one of the second-factor verification methods the
// identity service may offer. Wire values follow the Bitwarden provider
// codes 0..7.
type TwoFactorProvider int

const (
	TwoFactorAuthenticator TwoFactorProvider = iota
	TwoFactorEmail
	TwoFactorDuo
	TwoFactorYubikey
	TwoFactorU2f
	TwoFactorRemember
	TwoFactorOrganizationDuo
	TwoFactorWebAuthn

	twoFactorProviderMax
)

// ParseTwoFactorProvider converts a wire code into a provider. Codes outside
// 0..7 are rejected with common.ErrUnsupportedTwoFactorProvider.
func ParseTwoFactorProvider(code int64) (TwoFactorProvider, error) {
	if code < 0 || code >= int64(twoFactorProviderMax) {
		return 0, fmt.Errorf("%w: unknown provider code %d", common.ErrUnsupportedTwoFactorProvider, code)
	}
	return TwoFactorProvider(code), nil
}

// UnmarshalJSON accepts both representations the identity service emits on
// the response path: a bare number and a numeric string. Anything else is an
// unknown-provider error. Both forms go through the same parser so the two
// encodings cannot drift apart.
func (p *TwoFactorProvider) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		parsed, err := ParseTwoFactorProvider(n)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: provider code is neither a number nor a string", common.ErrUnsupportedTwoFactorProvider)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: provider code %q is not numeric", common.ErrUnsupportedTwoFactorProvider, s)
	}
	parsed, err := ParseTwoFactorProvider(n)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// WireCode returns the numeric code used on the request path.
func (p TwoFactorProvider) WireCode() string {
	return strconv.Itoa(int(p))
}

// Name returns a short human-readable label for menus and logs.
func (p TwoFactorProvider) Name() string {
	switch p {
	case TwoFactorAuthenticator:
		return "Authenticator app"
	case TwoFactorEmail:
		return "Email verification"
	case TwoFactorDuo:
		return "Duo"
	case TwoFactorYubikey:
		return "Yubikey"
	case TwoFactorU2f:
		return "U2f"
	case TwoFactorRemember:
		return "Remember"
	case TwoFactorOrganizationDuo:
		return "Organization Duo"
	case TwoFactorWebAuthn:
		return "Web authentication"
	default:
		return fmt.Sprintf("Unknown provider %d", int(p))
	}
}

// Supported reports whether this build can complete the provider's challenge.
func (p TwoFactorProvider) Supported() bool {
	switch p {
	case TwoFactorAuthenticator, TwoFactorEmail:
		return true
	default:
		return false
	}
}

// Instructions returns the prompt text shown before asking for a token.
// Providers this client cannot complete report an explicit unsupported
// error instead of silently succeeding.
func (p TwoFactorProvider) Instructions() (string, error) {
	switch p {
	case TwoFactorAuthenticator:
		return "Enter the 6 digit verification code from your authenticator app", nil
	case TwoFactorEmail:
		return "Enter the 6 digit verification code you received via email", nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedTwoFactorProvider, p.Name())
	}
}

// TwoFactorVerification carries a user-supplied token for exactly one
// retried login request.
type TwoFactorVerification struct {
	Token    string
	Provider TwoFactorProvider
}
