package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/jack-weilage/bwrs/internal/client/models"
)

// twoFactorCodeLength is the length of the verification codes both
// supported providers issue.
const twoFactorCodeLength = 6

// ChooseProvider presents the server-offered two-step login methods as a
// numbered menu and returns the user's pick. A single offered method is
// selected without prompting.
func (a *App) ChooseProvider(ctx context.Context, providers []models.TwoFactorProvider) (models.TwoFactorProvider, error) {
	if len(providers) == 1 {
		printlnFn("Two-step login method:", providers[0].Name())
		return providers[0], nil
	}

	printlnFn("Two-step login methods:")
	for i, p := range providers {
		label := p.Name()
		if !p.Supported() {
			label += " (not supported by this client)"
		}
		printlnFn(fmt.Sprintf("  %d. %s", i+1, label))
	}

	choice, err := getValidatedText(a.reader, "Select a method", os.Stdout, func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > len(providers) {
			return fmt.Errorf("Enter a number between 1 and %d", len(providers))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(choice)
	if err != nil {
		return 0, err
	}
	return providers[n-1], nil
}

// Token shows the provider's instructions and reads a verification code,
// re-prompting until the input is exactly six ASCII digits.
func (a *App) Token(ctx context.Context, provider models.TwoFactorProvider) (string, error) {
	instructions, err := provider.Instructions()
	if err != nil {
		return "", err
	}

	return getValidatedText(a.reader, instructions, os.Stdout, func(s string) error {
		if !isDigitCode(s, twoFactorCodeLength) {
			return errors.New("The verification code must be exactly 6 digits")
		}
		return nil
	})
}
