package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// App
	Env      string // dev / staging / prod
	HTTPAddr string

	// Secret keys password encryption, activation keys and the session cookie.
	Secret string

	// Infrastructure. Empty values fall back to in-memory adapters.
	DBAddr    string
	RedisAddr string
	RabbitURL string

	// Email delivery: "smtp", "queue" or "fake".
	EmailSender  string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPTimeout  time.Duration

	// Site identity, exposed through the settings store.
	SiteEmail string
	SiteTitle string

	SessionTTL time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.Secret = os.Getenv("IONIZE_SECRET")
	if cfg.Secret == "" {
		return nil, fmt.Errorf("missing required env var: IONIZE_SECRET")
	}

	cfg.DBAddr = os.Getenv("DB_ADDR")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RabbitURL = os.Getenv("RABBIT_URL")

	cfg.EmailSender = getEnv("EMAIL_SENDER", "fake")
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	port, err := getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPPort = port

	if cfg.SMTPTimeout, err = getDuration("SMTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.SiteEmail = os.Getenv("SITE_EMAIL")
	cfg.SiteTitle = getEnv("SITE_TITLE", "Ionize")

	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if cfg.EmailSender == "smtp" && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("EMAIL_SENDER=smtp requires SMTP_HOST")
	}
	if cfg.EmailSender == "queue" && cfg.RabbitURL == "" {
		return nil, fmt.Errorf("EMAIL_SENDER=queue requires RABBIT_URL")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}
