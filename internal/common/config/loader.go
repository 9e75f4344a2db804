// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "homework-status-bot/internal/common/errors"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultInterval = 10 * time.Minute
	DefaultWindow   = 30 * 24 * time.Hour
	DefaultTimeout  = 30 * time.Second
	DefaultRedisKey = "status-bot:last-submission"
)

// envBindings maps config keys to the environment variables that may set them.
// The first variable present wins.
var envBindings = map[string][]string{
	"app.environment":      {"APP_ENVIRONMENT"},
	"practicum.token":      {"PRACTICUM_TOKEN"},
	"practicum.endpoint":   {"PRACTICUM_ENDPOINT"},
	"practicum.timeout":    {"PRACTICUM_TIMEOUT"},
	"telegram.token":       {"TELEGRAM_TOKEN"},
	"telegram.chat_id":     {"TELEGRAM_CHAT_ID", "CHAT_ID"},
	"poll.interval":        {"POLL_INTERVAL"},
	"poll.window":          {"POLL_WINDOW"},
	"state.backend":        {"STATE_BACKEND"},
	"state.redis.address":  {"STATE_REDIS_ADDRESS"},
	"state.redis.password": {"STATE_REDIS_PASSWORD"},
	"state.redis.db":       {"STATE_REDIS_DB"},
	"state.redis.key":      {"STATE_REDIS_KEY"},
	"alerts.sns.enabled":   {"ALERTS_SNS_ENABLED"},
	"alerts.sns.topic_arn": {"ALERTS_SNS_TOPIC_ARN"},
	"alerts.sns.region":    {"ALERTS_SNS_REGION", "AWS_REGION"},
	"metrics.address":      {"METRICS_ADDRESS"},
	"logging.level":        {"LOGGING_LEVEL"},
	"logging.format":       {"LOGGING_FORMAT"},
}

// Load reads .env (from envFiles, or the usual locations when none are given),
// an optional configs/config.yaml, and the environment.
func Load(envFiles ...string) (*Config, error) {
	envFile := loadEnvFile(envFiles)

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadEnvFile(paths []string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
		if rootDir := findProjectRoot(); rootDir != "" {
			paths = append(paths, filepath.Join(rootDir, ".env"))
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "homework-status-bot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Practicum.Endpoint == "" {
		cfg.Practicum.Endpoint = DefaultEndpoint
	}
	if cfg.Practicum.Timeout <= 0 {
		cfg.Practicum.Timeout = DefaultTimeout
	}

	if cfg.Poll.Interval <= 0 {
		cfg.Poll.Interval = DefaultInterval
	}
	if cfg.Poll.Window <= 0 {
		cfg.Poll.Window = DefaultWindow
	}

	if cfg.State.Backend == "" {
		cfg.State.Backend = "memory"
	}
	if cfg.State.Redis.Key == "" {
		cfg.State.Redis.Key = DefaultRedisKey
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// validateConfig checks the required credentials in a fixed order and reports
// the first one missing.
func validateConfig(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"PRACTICUM_TOKEN", cfg.Practicum.Token},
		{"TELEGRAM_TOKEN", cfg.Telegram.Token},
		{"TELEGRAM_CHAT_ID (CHAT_ID)", cfg.Telegram.ChatID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewConfigMissingError(r.name)
		}
	}

	switch cfg.State.Backend {
	case "memory":
	case "redis":
		if cfg.State.Redis.Address == "" {
			return fmt.Errorf("state.redis.address is required when state.backend is redis")
		}
	default:
		return fmt.Errorf("unknown state.backend %q", cfg.State.Backend)
	}

	if cfg.Alerts.SNS.Enabled && cfg.Alerts.SNS.TopicARN == "" {
		return fmt.Errorf("alerts.sns.topic_arn is required when alerts.sns.enabled is set")
	}

	return nil
}

// FromDate returns the fixed lower bound of the requested window as a Unix timestamp.
func FromDate(now time.Time, window time.Duration) int64 {
	return now.Add(-window).Unix()
}
