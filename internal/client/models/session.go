package models

import "time"

// Session is the authenticated state returned by a successful token
// exchange. Persistence is the state repository's concern; the session
// itself never carries key material.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
}

// LoginResult is the outcome of a single token-exchange call. Exactly one
// of the two fields is set: Session on success, Providers when the service
// demands a second factor.
type LoginResult struct {
	Session   *Session
	Providers []TwoFactorProvider
}

// NeedsTwoFactor reports whether the service asked for a second factor.
func (r *LoginResult) NeedsTwoFactor() bool {
	return r.Session == nil
}
