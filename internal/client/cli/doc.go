// Package cli provides the interactive bwrs command-line client.
//
// It wires configuration, local state storage, the identity API client and
// an interactive REPL. Typical flow: prompt for credentials, run the login
// pipeline (KDF negotiation, key derivation, token exchange, optional
// two-factor verification), then keep the session and vault keys in memory
// for the rest of the process.
//
// Key features:
//   - Login / Logout against a Bitwarden-compatible identity service
//   - Two-step login via authenticator app or email codes
//   - Status of the locally persisted session
//   - A small base64 encode helper
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
