// Package config loads runtime configuration for the SwapDiary CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a dotenv file (-env, or ./.env).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-d string   path of the local SQLite database
//	-i int      swap check interval (seconds)
//	-t int      request timeout (seconds)
//
// Environment
//
//	SWAPDIARY_SERVER   backend address
//	SWAPDIARY_DB       local database path
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "1m" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_path": "swapdiary.db",
//	  "swap_check_interval": "1m",
//	  "request_timeout": "10s"
//	}
package config
