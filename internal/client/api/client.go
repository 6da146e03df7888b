// Package api talks to the Bitwarden-compatible identity service. It is the
// only package that performs network I/O during a login attempt.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/logging"
)

const userAgent = "bwrs/0.1.0"

// Client is the remote boundary consumed by the auth service.
type Client interface {
	// Prelogin fetches the KDF descriptor negotiated for the account.
	Prelogin(ctx context.Context, email string) (*models.KdfConfig, error)

	// Login executes the password-grant token exchange. The serverHash is
	// the 32-byte server auth hash; twoFactor is attached on a retried
	// request after a challenge and is nil otherwise.
	Login(ctx context.Context, email string, serverHash []byte, twoFactor *models.TwoFactorVerification) (*models.LoginResult, error)

	// SendTwoFactorEmail asks the service to send a verification code to
	// the account's email. Used as the pre-step for the Email provider.
	SendTwoFactorEmail(ctx context.Context, email string, serverHash []byte) error
}

// HTTP is the Client implementation backed by net/http.
type HTTP struct {
	httpClient  *http.Client
	baseURL     string
	identityURL string
	device      models.DeviceInfo
	log         logging.Logger
}

// NewHTTP constructs an HTTP client for the given API and identity base
// URLs. Timeouts on network calls live here; the layers above treat a
// timeout as any other transport failure.
func NewHTTP(baseURL, identityURL string, device models.DeviceInfo, timeout time.Duration, log logging.Logger) *HTTP {
	return &HTTP{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		identityURL: identityURL,
		device:      device,
		log:         log,
	}
}
