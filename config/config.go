package config

import (
	"os"
	"strings"
)

// JWTSecret signs staff session tokens, read from env with a dev fallback.
var JWTSecret = []byte(envOrDefault("JWT_SECRET", "hotelops_dev_secret_change_me"))

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}
