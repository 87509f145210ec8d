package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	var defaults Config
	defaults.LoadDefaults()

	withDefaults := func(mut func(*Config)) Config {
		c := defaults
		mut(&c)
		return c
	}

	tests := []struct {
		name      string
		args      []string
		want      Config
		wantPanic bool
	}{
		{
			name: "all flags",
			args: []string{"server",
				"-a", "127.0.0.1:9090", "-w", ":8081", "-d", "postgres://flags", "-s", "secret",
				"-t", "5", "-r", "120", "-u", "user", "-p", "password", "-b", "bucket",
				"-g", "us-west-1", "-e", "http://endpoint", "-m", "2048",
			},
			want: Config{
				EndpointAddrGRPC:             "127.0.0.1:9090",
				EndpointAddrHTTP:             ":8081",
				DatabaseDSN:                  "postgres://flags",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  5 * time.Minute,
				RefreshTokenValidityDuration: 2 * time.Hour,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				MaxImageBytes:                2048,
			},
		},
		{
			name: "no flags keeps defaults",
			args: []string{"server"},
			want: defaults,
		},
		{
			name: "config and env flags are skipped",
			args: []string{"server", "-c", "cfg.json", "-env", "prod.env", "-w", ":9999"},
			want: withDefaults(func(c *Config) { c.EndpointAddrHTTP = ":9999" }),
		},
		{
			name:      "minutes must be numeric",
			args:      []string{"server", "-t", "soon"},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := defaults

			if tt.wantPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(&cfg) })
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
