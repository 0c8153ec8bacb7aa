package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	devJWTSecret    = "dev-jwt-secret-change-in-production!"
	devClientSecret = "dev-client-secret-change-in-production"
)

// Config holds the API server configuration.
type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	// JWTSecret signs session tokens; must be at least 32 bytes.
	JWTSecret string

	// ClientSecret keys the request-origin signature check shared with clients.
	ClientSecret string

	// ProfilePicDir is where uploaded profile pictures are stored.
	ProfilePicDir string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the server configuration from the environment.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/timetrack?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		ClientSecret:   getEnv("CLIENT_SECRET", devClientSecret),
		ProfilePicDir:  getEnv("PROFILE_PIC_DIR", "uploads/profile-pics"),
		RateLimitRPS:   5,
		RateLimitBurst: 10,
	}

	if cfg.Env == "production" {
		if cfg.JWTSecret == devJWTSecret {
			slog.Error("JWT_SECRET must be set in production environment")
			os.Exit(1)
		}
		if cfg.ClientSecret == devClientSecret {
			slog.Error("CLIENT_SECRET must be set in production environment")
			os.Exit(1)
		}
	}

	return cfg
}

// ClientConfig holds the CLI client configuration.
type ClientConfig struct {
	APIURL       string
	ClientSecret string

	// TokenFile is where the session token persists between runs.
	TokenFile string
}

// LoadClient reads the client configuration from the environment.
func LoadClient() ClientConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return ClientConfig{
		APIURL:       getEnv("TIMETRACK_API_URL", "http://localhost:8080"),
		ClientSecret: getEnv("TIMETRACK_CLIENT_SECRET", devClientSecret),
		TokenFile:    getEnv("TIMETRACK_TOKEN_FILE", filepath.Join(home, ".timetrack", "token")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
