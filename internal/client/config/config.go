package config

import "time"

// Config holds runtime settings for the SwapDiary CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DatabasePath: SQLite file holding the guest diary and device settings.
//   - SwapCheckInterval: how often the swap watcher re-resolves today's role.
//   - RequestTimeout: deadline for a single call to the backend.
type Config struct {
	ServerEndpointAddr string
	DatabasePath       string
	SwapCheckInterval  time.Duration
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "swapdiary.db"
	c.SwapCheckInterval = time.Minute
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
