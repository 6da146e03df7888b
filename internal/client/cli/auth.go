package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jack-weilage/bwrs/internal/client/api"
	"github.com/jack-weilage/bwrs/internal/common"
)

// getSimpleText, getValidatedText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getValidatedText = GetValidatedText
var getPassword = GetPassword

// validateEmail is a plausibility check, not RFC validation. The identity
// service is the authority; this only catches obvious typos before a
// network round trip.
func validateEmail(s string) error {
	if s == "" || !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// Login prompts the user for credentials and runs the full authentication
// pipeline. The email is re-prompted until it looks plausible; an empty
// password aborts the attempt without a network call.
//
// On success the session and the derived vault keys are kept in memory on
// the App. The password byte slice is securely wiped before returning.
// Failures are reported to the user with a message matched to the error
// kind and the underlying error is returned.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in as", a.email)
		return nil
	}

	email, err := getValidatedText(a.reader, "Enter email", os.Stdout, validateEmail)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) == 0 {
		printlnFn("Password must not be empty.")
		return errors.New("empty password")
	}

	data, err := a.authService.Login(ctx, email, password)
	if err != nil {
		var protoErr *api.ProtocolError
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			printlnFn("Username or password is incorrect. Try again.")
		case errors.Is(err, common.ErrTooManyTwoFactorAttempts):
			printlnFn("Too many invalid verification code attempts.")
		case errors.Is(err, common.ErrUnsupportedTwoFactorProvider):
			printlnFn("The selected two-step login method is not supported by this client.")
		case errors.As(err, &protoErr):
			printlnFn("The server returned an unexpected response:", protoErr.Error())
		default:
			printlnFn("Login unsuccessful:", err.Error())
		}
		a.log.Error(ctx, "login failed", "error", err)
		return err
	}

	a.email = email
	a.session = data.Session
	a.keys = data.Keys

	printlnFn("You are logged in as", email)
	return nil
}

// Logout drops the persisted session and wipes the in-memory keys. The
// device identifier survives so the identity service keeps recognizing
// this installation.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		if errors.Is(err, common.ErrNotLoggedIn) {
			printlnFn("Not logged in.")
		} else {
			printlnFn("Logout unsuccessful:", err.Error())
		}
		return err
	}
	a.dropKeys()
	printlnFn("You have logged out.")
	return nil
}

// Status prints the persisted session state without touching the network.
func (a *App) Status(ctx context.Context) error {
	status, err := a.authService.Status(ctx)
	if err != nil {
		printlnFn("Status unavailable:", err.Error())
		return err
	}

	if !status.HasSession {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn("Logged in as", status.Email)
	if a.isLoggedIn() {
		printlnFn("Vault keys are loaded for this session.")
	}
	if !status.TokenExpiresAt.IsZero() {
		printlnFn(fmt.Sprintf("Access token expires at %s", status.TokenExpiresAt.Local().Format(time.RFC1123)))
	}
	return nil
}
