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

	tests := []struct {
		name      string
		args      []string
		want      Config
		wantPanic bool
	}{
		{
			name: "every flag",
			args: []string{"client", "-a", "127.0.0.1:9090", "-d", "/tmp/x.db", "-i", "30", "-t", "5"},
			want: Config{ServerEndpointAddr: "127.0.0.1:9090", DatabasePath: "/tmp/x.db", SwapCheckInterval: 30 * time.Second, RequestTimeout: 5 * time.Second},
		},
		{
			name: "unknown flags and their values are dropped",
			args: []string{"client", "-x", "1", "--verbose", "-i", "120"},
			want: Config{ServerEndpointAddr: defaults.ServerEndpointAddr, DatabasePath: defaults.DatabasePath, SwapCheckInterval: 2 * time.Minute, RequestTimeout: defaults.RequestTimeout},
		},
		{
			name: "config path is not a client flag",
			args: []string{"client", "-c", "client.json"},
			want: defaults,
		},
		{
			name:      "interval must be whole seconds",
			args:      []string{"client", "-i", "1.5"},
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
			parseFlags(&cfg)
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
