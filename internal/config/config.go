package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string

	PinataBaseURL   string
	PinataAPIKey    string
	PinataAPISecret string
	PinataGateway   string

	GradeMax        int
	EventStream     string
	SubmitRateMax   int
	SubmitRateEvery time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACAD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AcadLedger API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("pinata.base_url", "https://api.pinata.cloud")
	v.SetDefault("pinata.gateway", "https://gateway.pinata.cloud")
	v.SetDefault("grade.max", 20)
	v.SetDefault("event.stream", "acad-events")
	v.SetDefault("submit.rate_max", 10)
	v.SetDefault("submit.rate_every", "1m")

	rateWindow, err := time.ParseDuration(v.GetString("submit.rate_every"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		PinataBaseURL:   v.GetString("pinata.base_url"),
		PinataAPIKey:    v.GetString("pinata.api_key"),
		PinataAPISecret: v.GetString("pinata.api_secret"),
		PinataGateway:   v.GetString("pinata.gateway"),
		GradeMax:        v.GetInt("grade.max"),
		EventStream:     v.GetString("event.stream"),
		SubmitRateMax:   v.GetInt("submit.rate_max"),
		SubmitRateEvery: rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.GradeMax <= 0 {
		cfg.GradeMax = 20
	}

	return cfg, nil
}
