package cli

import (
	"context"
	"encoding/base64"
	"os"
)

// Encode reads a line of text and prints its standard base64 encoding.
// Handy for preparing values the vault API expects in encoded form.
func (a *App) Encode(ctx context.Context) error {
	line, err := getSimpleText(a.reader, "Enter text to encode", os.Stdout)
	if err != nil {
		return err
	}

	printlnFn(base64.StdEncoding.EncodeToString([]byte(line)))
	return nil
}
