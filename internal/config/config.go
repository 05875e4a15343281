package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"energyexplain/domain/fuzzy"
	"energyexplain/domain/model"
	"energyexplain/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Log      LogConfig
	Pipeline Pipeline
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory evaluation repository.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// LogConfig selects logger verbosity and output format
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables and validates it.
// Callers load .env files before calling Load.
func Load() (*Config, error) {
	pipeline, err := loadPipeline()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pipeline configuration")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
		Pipeline: pipeline,
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadPipeline() (Pipeline, error) {
	p := DefaultPipeline()

	var err error
	if p.Features.PeakHours, err = getEnvIntListOrDefault("PEAK_HOURS", p.Features.PeakHours); err != nil {
		return p, err
	}
	if p.Features.OffPeakHours, err = getEnvIntListOrDefault("OFFPEAK_HOURS", p.Features.OffPeakHours); err != nil {
		return p, err
	}
	if p.Features.Lags, err = getEnvIntListOrDefault("LAGS", p.Features.Lags); err != nil {
		return p, err
	}
	p.Features.BusinessStartHour = getEnvIntOrDefault("BUSINESS_START_HOUR", p.Features.BusinessStartHour)
	p.Features.BusinessEndHour = getEnvIntOrDefault("BUSINESS_END_HOUR", p.Features.BusinessEndHour)
	p.Features.RollingWindow = getEnvIntOrDefault("ROLLING_WINDOW", p.Features.RollingWindow)
	p.Features.RatioOffset = getEnvFloatOrDefault("RATIO_OFFSET", p.Features.RatioOffset)

	if v := os.Getenv("TRAIN_TARGET"); v != "" {
		target, ok := model.ParseTarget(v)
		if !ok {
			return p, errors.ConfigInvalid(fmt.Sprintf("TRAIN_TARGET %q is not price or consumption", v))
		}
		p.Training.Target = target
	}
	p.Training.TestFraction = getEnvFloatOrDefault("TEST_FRACTION", p.Training.TestFraction)
	p.Training.Seed = int64(getEnvIntOrDefault("RANDOM_SEED", int(p.Training.Seed)))
	p.Training.SampleCount = getEnvIntOrDefault("SAMPLE_COUNT", p.Training.SampleCount)
	p.Training.ExcludeTargetDerived = getEnvBoolOrDefault("EXCLUDE_TARGET_DERIVED", p.Training.ExcludeTargetDerived)

	if p.Fuzzy.Price, err = getEnvThresholdsOrDefault("PRICE_THRESHOLDS", p.Fuzzy.Price); err != nil {
		return p, err
	}
	if p.Fuzzy.Consumption, err = getEnvThresholdsOrDefault("CONSUMPTION_THRESHOLDS", p.Fuzzy.Consumption); err != nil {
		return p, err
	}
	p.Fuzzy.Trend.Lookback = getEnvIntOrDefault("TREND_LOOKBACK", p.Fuzzy.Trend.Lookback)
	p.Fuzzy.Trend.StablePct = getEnvFloatOrDefault("TREND_STABLE_PCT", p.Fuzzy.Trend.StablePct)
	p.Fuzzy.Trend.RapidPct = getEnvFloatOrDefault("TREND_RAPID_PCT", p.Fuzzy.Trend.RapidPct)
	p.Drivers.Window = getEnvDurationOrDefault("MARKET_WINDOW", p.Drivers.Window)
	return p, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	switch config.Log.Format {
	case "console", "json":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("LOG_FORMAT %q must be console or json", config.Log.Format))
	}
	return config.Pipeline.Validate()
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvIntListOrDefault(key string, defaultValue []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := splitList(value)
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not an integer", key, part))
		}
		out = append(out, n)
	}
	return out, nil
}

func getEnvThresholdsOrDefault(key string, defaultValue fuzzy.Thresholds) (fuzzy.Thresholds, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parts := splitList(value)
	if len(parts) != 4 {
		return defaultValue, errors.ConfigInvalid(fmt.Sprintf("%s needs four comma-separated breakpoints", key))
	}
	var points [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return defaultValue, errors.ConfigInvalid(fmt.Sprintf("%s: %q is not a number", key, part))
		}
		points[i] = f
	}
	return fuzzy.Thresholds{Low: points[0], ModerateLow: points[1], ModerateHigh: points[2], High: points[3]}, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
