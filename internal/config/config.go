package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/b-learning-api/internal/grading"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                 string
	AppEnv                  string
	AppPort                 string
	DatabaseURL             string
	RedisURL                string
	NATSURL                 string
	NATSSubjectPrefix       string
	LatePolicy              grading.LatePolicy
	AcceptSubmittedAt       bool
	StatsCacheTTL           time.Duration
	CORSOrigins             string
	SubmissionRatePerMinute int
	RequestTimeout          time.Duration
	AutoMigrate             bool
	SeedEnabled             bool
	SeedToken               string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BLEARN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "B-Learning API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8000")
	v.SetDefault("nats.subject_prefix", "blearning")
	v.SetDefault("submissions.late_policy", string(grading.LatePolicyReject))
	v.SetDefault("submissions.accept_submitted_at", false)
	v.SetDefault("stats.cache_ttl", "1m")
	v.SetDefault("cors.origins", "http://localhost:3000")
	v.SetDefault("ratelimit.submissions_per_minute", 30)
	v.SetDefault("http.request_timeout", "10s")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("seed.enabled", false)

	policy, err := grading.ParseLatePolicy(v.GetString("submissions.late_policy"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submissions late policy: %w", err)
	}

	ttl, err := parseDuration(v.GetString("stats.cache_ttl"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	timeout, err := parseDuration(v.GetString("http.request_timeout"), 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout: %w", err)
	}

	cfg := Config{
		AppName:                 v.GetString("app.name"),
		AppEnv:                  v.GetString("app.env"),
		AppPort:                 v.GetString("app.port"),
		DatabaseURL:             v.GetString("database.url"),
		RedisURL:                v.GetString("redis.url"),
		NATSURL:                 v.GetString("nats.url"),
		NATSSubjectPrefix:       strings.Trim(v.GetString("nats.subject_prefix"), "."),
		LatePolicy:              policy,
		AcceptSubmittedAt:       v.GetBool("submissions.accept_submitted_at"),
		StatsCacheTTL:           ttl,
		CORSOrigins:             v.GetString("cors.origins"),
		SubmissionRatePerMinute: v.GetInt("ratelimit.submissions_per_minute"),
		RequestTimeout:          timeout,
		AutoMigrate:             v.GetBool("database.auto_migrate"),
		SeedEnabled:             v.GetBool("seed.enabled"),
		SeedToken:               strings.TrimSpace(v.GetString("seed.token")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.SeedEnabled && cfg.SeedToken == "" {
		return Config{}, fmt.Errorf("seed token must be provided when seeding is enabled")
	}

	if cfg.SubmissionRatePerMinute <= 0 {
		cfg.SubmissionRatePerMinute = 30
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", value)
	}
	return duration, nil
}
