package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	// MinAppAccessScore gates user self-registration by application trust.
	MinAppAccessScore float64

	DefaultPerPage int
	MaxPerPage     int

	// GatewayAttempts bounds pay-key mint retries per request.
	GatewayAttempts int

	PayPalEndpoint  string
	PayPalUserID    string
	PayPalPassword  string
	PayPalSignature string
	PayPalAppID     string
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "commonfund"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "development-only-secret"
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = service
	}

	endpoint := os.Getenv("PAYPAL_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://svcs.sandbox.paypal.com"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		JWTSecret: secret,
		JWTIssuer: issuer,
		JWTTTL:    envDuration("JWT_TTL", 24*time.Hour),

		MinAppAccessScore: envFloat("MIN_APP_ACCESS_SCORE", 0.5),

		DefaultPerPage: envInt("DEFAULT_PER_PAGE", 20),
		MaxPerPage:     envInt("MAX_PER_PAGE", 50),

		GatewayAttempts: envInt("GATEWAY_ATTEMPTS", 3),

		PayPalEndpoint:  endpoint,
		PayPalUserID:    os.Getenv("PAYPAL_USER_ID"),
		PayPalPassword:  os.Getenv("PAYPAL_PASSWORD"),
		PayPalSignature: os.Getenv("PAYPAL_SIGNATURE"),
		PayPalAppID:     os.Getenv("PAYPAL_APP_ID"),
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
