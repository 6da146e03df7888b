package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/common"
)

// Error message substrings the identity service embeds in 400 bodies.
// The service has no structured error contract for these cases.
const (
	msgTwoFactorRequired = "Two factor required"
	msgTwoFactorInvalid  = "Two-step token is invalid"
	msgBadCredentials    = "Username or password is incorrect"
)

type preloginRequest struct {
	Email string `json:"email"`
}

// Prelogin sends the account email to the prelogin endpoint and parses the
// returned KDF descriptor. Transport errors are propagated wrapped; a
// malformed descriptor surfaces as a ProtocolError and an unknown or
// incomplete KDF as common.ErrUnsupportedKdf. No retries happen here.
func (c *HTTP) Prelogin(ctx context.Context, email string) (*models.KdfConfig, error) {
	body, err := json.Marshal(preloginRequest{Email: email})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identityURL+"/accounts/prelogin", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prelogin request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("prelogin response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var cfg models.KdfConfig
	if err := json.Unmarshal(respBody, &cfg); err != nil {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.log.Info(ctx, "negotiated kdf", "kind", int(cfg.Kind), "iterations", cfg.Iterations)
	return &cfg, nil
}

// tokenResponse is the success body of the token exchange.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// twoFactorRequiredResponse is embedded in a 400 body when the account has
// a second factor enabled.
type twoFactorRequiredResponse struct {
	Providers []models.TwoFactorProvider `json:"TwoFactorProviders"`
}

// Login builds the password-grant form and interprets the response into a
// typed LoginResult. 4xx responses are never retried here; whether a second
// attempt with a two-factor token is warranted is the auth service's call.
func (c *HTTP) Login(ctx context.Context, email string, serverHash []byte, twoFactor *models.TwoFactorVerification) (*models.LoginResult, error) {
	form := url.Values{}
	form.Set("scope", "api offline_access")
	form.Set("grant_type", "password")
	form.Set("client_id", "cli")
	form.Set("username", email)
	form.Set("password", base64.StdEncoding.EncodeToString(serverHash))
	form.Set("deviceType", strconv.Itoa(int(c.device.Type)))
	form.Set("deviceIdentifier", c.device.Identifier)
	form.Set("deviceName", c.device.Name)
	if twoFactor != nil {
		form.Set("twoFactorToken", twoFactor.Token)
		form.Set("twoFactorProvider", twoFactor.Provider.WireCode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identityURL+"/connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Auth-Email", base64.RawURLEncoding.EncodeToString([]byte(email)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("token response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var tr tokenResponse
		if err := json.Unmarshal(respBody, &tr); err != nil || tr.AccessToken == "" {
			return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		return &models.LoginResult{Session: c.buildSession(&tr)}, nil

	case http.StatusBadRequest:
		return c.interpretBadRequest(respBody)

	default:
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
}

// interpretBadRequest maps the known 400 bodies onto the error taxonomy.
// The credential and two-factor cases must stay distinguishable so the
// caller knows whether to re-prompt for a password or for a code.
func (c *HTTP) interpretBadRequest(body []byte) (*models.LoginResult, error) {
	text := string(body)

	switch {
	case strings.Contains(text, msgTwoFactorRequired):
		var tf twoFactorRequiredResponse
		if err := json.Unmarshal(body, &tf); err != nil {
			return nil, fmt.Errorf("two-factor challenge: %w", err)
		}
		if len(tf.Providers) == 0 {
			return nil, &ProtocolError{StatusCode: http.StatusBadRequest, Body: text}
		}
		return &models.LoginResult{Providers: tf.Providers}, nil

	case strings.Contains(text, msgTwoFactorInvalid):
		return nil, common.ErrInvalidTwoFactorToken

	case strings.Contains(text, msgBadCredentials):
		return nil, common.ErrInvalidCredentials

	default:
		return nil, &ProtocolError{StatusCode: http.StatusBadRequest, Body: text}
	}
}

type sendEmailLoginRequest struct {
	Email              string `json:"email"`
	MasterPasswordHash string `json:"masterPasswordHash"`
	DeviceIdentifier   string `json:"deviceIdentifier"`
}

// SendTwoFactorEmail triggers the email-code send for accounts using the
// Email provider. The request must prove password knowledge, so it carries
// the same base64 server hash as the token exchange.
func (c *HTTP) SendTwoFactorEmail(ctx context.Context, email string, serverHash []byte) error {
	body, err := json.Marshal(sendEmailLoginRequest{
		Email:              email,
		MasterPasswordHash: base64.StdEncoding.EncodeToString(serverHash),
		DeviceIdentifier:   c.device.Identifier,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/two-factor/send-email-login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send two-factor email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &ProtocolError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}

// buildSession converts a token response into a Session. The expiry comes
// from the access token's exp claim when it parses as a JWT, falling back
// to expires_in. The signature is not checked: the client holds no issuer
// key, and a forged expiry only shortens its own session.
func (c *HTTP) buildSession(tr *tokenResponse) *models.Session {
	expiresAt := time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	parser := jwt.NewParser()
	if token, _, err := parser.ParseUnverified(tr.AccessToken, jwt.MapClaims{}); err == nil {
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			expiresAt = exp.Time
		}
	}

	return &models.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		TokenType:    tr.TokenType,
		ExpiresAt:    expiresAt,
	}
}
