package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/swapdiary/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

var lookupEnv = os.LookupEnv

func parseEnv(cfg *Config) {
	path := flagx.EnvFileFlags()
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookupEnv("SWAPDIARY_SERVER"); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := lookupEnv("SWAPDIARY_DB"); ok && v != "" {
		cfg.DatabasePath = v
	}
}
