// Package config loads runtime configuration for the bwrs CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the vault API
//	-u string   base URL of the identity service
//	-d string   device name sent with the token exchange
//	-t int      HTTP request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.bitwarden.com",
//	  "identity_url": "https://identity.bitwarden.com",
//	  "device_name": "bwrs",
//	  "request_timeout": "30s"
//	}
//
// Primary API
//
//   - type Config                     — holds the URLs, device name and timeout
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
