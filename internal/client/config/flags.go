package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags. Only
// the flags listed in the package doc are consumed; command flags of the CLI
// are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"db", "out", "z", "l", "a", "token", "timeout", "v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local journal database")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	fs.StringVar(&cfg.Timezone, "z", cfg.Timezone, "timezone")
	fs.StringVar(&cfg.Locale, "l", cfg.Locale, "label locale (zh|en)")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AccessToken, "token", cfg.AccessToken, "access token")
	timeout := fs.Int("timeout", int(cfg.RequestTimeout.Seconds()), "remote call timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
