package config

import (
	"flag"
	"os"
	"time"

	"github.com/jack-weilage/bwrs/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the vault API (default from Config)
//	-u string   base URL of the identity service (default from Config)
//	-d string   device name sent with the token exchange
//	-t int      HTTP request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the vault API")
	fs.StringVar(&cfg.IdentityURL, "u", cfg.IdentityURL, "base URL of the identity service")
	fs.StringVar(&cfg.DeviceName, "d", cfg.DeviceName, "device name sent to the identity service")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "HTTP request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
