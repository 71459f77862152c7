package app

import (
	"strings"
	"time"

	"github.com/amacast/amacast-backend/internal/pkg/envutil"
	"github.com/amacast/amacast-backend/internal/platform/logger"
)

type Config struct {
	Port          string
	JWTSecretKey  string
	SweepInterval time.Duration
	CORSOrigins   []string
}

func LoadConfig(log *logger.Logger) Config {
	port := envutil.GetEnv("PORT", "8080", log)
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	sweepIntervalSeconds := envutil.GetEnvAsInt("SWEEP_INTERVAL_SECONDS", 60, log)

	var origins []string
	if raw := envutil.GetEnv("CORS_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return Config{
		Port:          port,
		JWTSecretKey:  jwtSecretKey,
		SweepInterval: time.Duration(sweepIntervalSeconds) * time.Second,
		CORSOrigins:   origins,
	}
}
