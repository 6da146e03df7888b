// Package services contains application services for the bwrs client.
// This file defines the authentication service: the login pipeline from
// KDF negotiation through key derivation, token exchange and the
// two-factor loop, plus session housekeeping.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jack-weilage/bwrs/internal/client/api"
	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/client/repositories/state"
	"github.com/jack-weilage/bwrs/internal/common"
	"github.com/jack-weilage/bwrs/internal/cryptox"
	"github.com/jack-weilage/bwrs/internal/logging"
)

// maxTwoFactorAttempts caps token submissions per challenge. After the cap
// the attempt fails with common.ErrTooManyTwoFactorAttempts instead of
// issuing another network call.
const maxTwoFactorAttempts = 3

// SecondFactorPrompter is the interactive surface the service uses to
// resolve a two-factor challenge. The CLI implements it; tests stub it.
type SecondFactorPrompter interface {
	// ChooseProvider picks one provider from the server's list.
	ChooseProvider(ctx context.Context, providers []models.TwoFactorProvider) (models.TwoFactorProvider, error)

	// Token obtains a verification code for the chosen provider.
	Token(ctx context.Context, provider models.TwoFactorProvider) (string, error)
}

// LoginData is handed to the caller after a successful login. The keys
// unlock the synced vault; the session authorizes API calls. Callers own
// the keys and must wipe them when done.
type LoginData struct {
	Session *models.Session
	Keys    *cryptox.Keys
}

// Status describes the locally persisted session, if any.
type Status struct {
	Email          string
	HasSession     bool
	TokenExpiresAt time.Time
}

// AuthService drives a login attempt end to end.
//
// Contract:
//   - Login: negotiate KDF, derive keys, exchange the password grant,
//     resolve at most one two-factor challenge, persist the session.
//   - Logout: drop the persisted session (the device identifier survives).
//   - Status: report the persisted session without network I/O.
//
// All methods must honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*LoginData, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*Status, error)
}

type authService struct {
	client api.Client
	states state.Repository
	prompt SecondFactorPrompter
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client,
// state repository and prompter.
func NewAuthService(client api.Client, states state.Repository, prompt SecondFactorPrompter, log logging.Logger) AuthService {
	return &authService{client: client, states: states, prompt: prompt, log: log}
}

// EnsureDeviceIdentifier loads the persisted device identifier, creating
// and storing a fresh UUID on first run. The identity service tracks known
// devices by this value, so it should stay stable across logins.
func EnsureDeviceIdentifier(ctx context.Context, repo state.Repository) (string, error) {
	id, err := repo.Get(ctx, state.KeyDeviceIdentifier)
	if err != nil {
		return "", err
	}
	if len(id) > 0 {
		return string(id), nil
	}

	fresh := uuid.New().String()
	if err := repo.Set(ctx, state.KeyDeviceIdentifier, []byte(fresh)); err != nil {
		return "", err
	}
	return fresh, nil
}

// Login runs the full authentication pipeline. Every failure is terminal
// for the attempt: partially derived key material is wiped and nothing is
// persisted. Only the two-factor token submission is retried, and only up
// to maxTwoFactorAttempts times.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*LoginData, error) {
	kdfConfig, err := a.client.Prelogin(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("prelogin: %w", err)
	}

	masterKey, err := cryptox.DeriveMasterKey(password, []byte(email), kdfConfig)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(masterKey)

	keys, err := cryptox.Stretch(masterKey)
	if err != nil {
		return nil, err
	}

	serverHash, err := cryptox.HashMasterKey(masterKey, password, cryptox.HashPurposeServerAuthorization)
	if err != nil {
		keys.Wipe()
		return nil, err
	}
	defer common.WipeByteArray(serverHash)

	localHash, err := cryptox.HashMasterKey(masterKey, password, cryptox.HashPurposeLocalAuthorization)
	if err != nil {
		keys.Wipe()
		return nil, err
	}
	defer common.WipeByteArray(localHash)

	result, err := a.client.Login(ctx, email, serverHash, nil)
	if err != nil {
		keys.Wipe()
		return nil, err
	}

	if result.NeedsTwoFactor() {
		a.log.Info(ctx, "two-factor challenge received", "providers", len(result.Providers))
		result, err = a.resolveTwoFactor(ctx, email, serverHash, result.Providers)
		if err != nil {
			keys.Wipe()
			return nil, err
		}
	}

	if err := a.saveSession(ctx, email, result.Session, localHash); err != nil {
		keys.Wipe()
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.log.Info(ctx, "login successful", "email", email)
	return &LoginData{Session: result.Session, Keys: keys}, nil
}

// resolveTwoFactor picks a provider, runs its pre-step, and submits
// user-supplied tokens until one is accepted or the attempt cap is hit.
func (a *authService) resolveTwoFactor(ctx context.Context, email string, serverHash []byte, providers []models.TwoFactorProvider) (*models.LoginResult, error) {
	provider, err := a.prompt.ChooseProvider(ctx, providers)
	if err != nil {
		return nil, err
	}

	if err := a.prepareProvider(ctx, provider, email, serverHash); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxTwoFactorAttempts; attempt++ {
		token, err := a.prompt.Token(ctx, provider)
		if err != nil {
			return nil, err
		}

		result, err := a.client.Login(ctx, email, serverHash, &models.TwoFactorVerification{
			Token:    token,
			Provider: provider,
		})
		if errors.Is(err, common.ErrInvalidTwoFactorToken) {
			a.log.Warn(ctx, "two-factor token rejected", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		if result.NeedsTwoFactor() {
			return nil, fmt.Errorf("identity service re-challenged after two-factor verification")
		}
		return result, nil
	}

	return nil, common.ErrTooManyTwoFactorAttempts
}

// prepareProvider runs the provider-specific pre-step before the user is
// prompted for a code. A failure here is distinct from a transport error:
// a provider this build cannot complete reports
// common.ErrUnsupportedTwoFactorProvider.
func (a *authService) prepareProvider(ctx context.Context, provider models.TwoFactorProvider, email string, serverHash []byte) error {
	switch provider {
	case models.TwoFactorAuthenticator:
		return nil
	case models.TwoFactorEmail:
		return a.client.SendTwoFactorEmail(ctx, email, serverHash)
	default:
		return fmt.Errorf("%w: %s", common.ErrUnsupportedTwoFactorProvider, provider.Name())
	}
}

// saveSession persists the session and the local verification hash in one
// transaction. Key material is deliberately absent: the enc/mac keys live
// only in memory with the caller.
func (a *authService) saveSession(ctx context.Context, email string, session *models.Session, localHash []byte) error {
	return a.states.SetMany(ctx, []state.Pair{
		{Key: state.KeyEmail, Value: []byte(email)},
		{Key: state.KeyAccessToken, Value: []byte(session.AccessToken)},
		{Key: state.KeyRefreshToken, Value: []byte(session.RefreshToken)},
		{Key: state.KeyTokenExpiresAt, Value: []byte(session.ExpiresAt.UTC().Format(time.RFC3339))},
		{Key: state.KeyLocalVerifier, Value: localHash},
	})
}

// Logout clears the persisted state. The device identifier is restored
// afterwards so the identity service keeps recognizing this installation.
// Without a persisted session there is nothing to log out of and the call
// fails with common.ErrNotLoggedIn.
func (a *authService) Logout(ctx context.Context) error {
	token, err := a.states.Get(ctx, state.KeyAccessToken)
	if err != nil {
		return err
	}
	if len(token) == 0 {
		return common.ErrNotLoggedIn
	}

	deviceID, err := a.states.Get(ctx, state.KeyDeviceIdentifier)
	if err != nil {
		return err
	}
	if err := a.states.Clear(ctx); err != nil {
		return err
	}
	if len(deviceID) > 0 {
		return a.states.Set(ctx, state.KeyDeviceIdentifier, deviceID)
	}
	return nil
}

// Status reports the locally persisted session without touching the network.
func (a *authService) Status(ctx context.Context) (*Status, error) {
	email, err := a.states.Get(ctx, state.KeyEmail)
	if err != nil {
		return nil, err
	}
	token, err := a.states.Get(ctx, state.KeyAccessToken)
	if err != nil {
		return nil, err
	}

	status := &Status{Email: string(email), HasSession: len(token) > 0}

	if raw, err := a.states.Get(ctx, state.KeyTokenExpiresAt); err == nil && len(raw) > 0 {
		if expiresAt, err := time.Parse(time.RFC3339, string(raw)); err == nil {
			status.TokenExpiresAt = expiresAt
		}
	}
	return status, nil
}
