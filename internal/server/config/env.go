package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/dmitrijs2005/swapdiary/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

var lookupEnv = os.LookupEnv

// parseEnv loads the dotenv file named by -env (or ./.env when present) into
// the process environment and copies the recognised variables into config.
// Variables already set in the environment win over the file.
//
// Recognised variables:
//
//	PORT                 REST port (the bind address becomes ":PORT")
//	HTTP_ADDRESS         REST bind address
//	GRPC_ADDRESS         gRPC bind address
//	DATABASE_DSN         PostgreSQL DSN
//	SECRET_KEY           JWT HMAC secret
//	S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION, S3_ENDPOINT
//	MAX_IMAGE_BYTES      upload limit in bytes
func parseEnv(config *Config) {
	path := flagx.EnvFileFlags()
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	setString(&config.EndpointAddrHTTP, "HTTP_ADDRESS")
	setString(&config.EndpointAddrGRPC, "GRPC_ADDRESS")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setString(&config.S3RootUser, "S3_ACCESS_KEY")
	setString(&config.S3RootPassword, "S3_SECRET_KEY")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_ENDPOINT")

	if v, ok := lookupEnv("MAX_IMAGE_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		config.MaxImageBytes = n
	}
}

func setString(dst *string, key string) {
	if v, ok := lookupEnv(key); ok && v != "" {
		*dst = v
	}
}
