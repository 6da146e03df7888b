package config

import "time"

// Config holds runtime settings for the bwrs CLI.
//
// Fields:
//   - APIURL: base URL of the vault API.
//   - IdentityURL: base URL of the identity service (prelogin/token).
//   - DeviceName: device name reported during the token exchange.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	APIURL         string
	IdentityURL    string
	DeviceName     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults pointing at the
// bitwarden.com cloud.
func (c *Config) LoadDefaults() {
	c.APIURL = "https://api.bitwarden.com"
	c.IdentityURL = "https://identity.bitwarden.com"
	c.DeviceName = "bwrs"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
