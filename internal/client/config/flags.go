package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-d string   local database path
//	-i int      swap check interval in seconds
//	-t int      request timeout in seconds
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other loaders
// do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	swapCheckInterval := fs.Int("i", int(cfg.SwapCheckInterval.Seconds()), "swap check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SwapCheckInterval = time.Duration(*swapCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
