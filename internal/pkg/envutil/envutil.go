package envutil

import (
	"os"
	"strconv"

	"github.com/amacast/amacast-backend/internal/platform/logger"
)

func GetEnv(key, fallback string, log *logger.Logger) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if log != nil {
		log.Debug("Env var not set, using fallback", "key", key, "fallback", fallback)
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int, log *logger.Logger) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Warn("Env var is not an int, using fallback", "key", key, "value", raw)
		}
		return fallback
	}
	return value
}
