package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	DBMaxConns         int32
	JWTSecret          string
	Environment        string
	RedisURL           string
	CountsCacheTTL     time.Duration
	WeekStart          time.Weekday
	SnapshotSchedule   string
	RunMigrations      bool
	MigrationsDir      string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	ShutdownTimeout    time.Duration
}

// Load reads configuration from the environment. When CONFIG_PATH names a
// file its values apply wherever the matching variable is unset.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	weekStart, err := ParseWeekday(getEnv(v, "WEEK_START", "sunday"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Addr:               getEnv(v, "APP_ADDR", ":8080"),
		DatabaseURL:        getEnv(v, "DATABASE_URL", ""),
		DBMaxConns:         int32(getEnvInt(v, "DB_MAX_CONNS", 10)),
		JWTSecret:          getEnv(v, "JWT_SECRET", ""),
		Environment:        getEnv(v, "APP_ENV", "development"),
		RedisURL:           getEnv(v, "REDIS_URL", ""),
		CountsCacheTTL:     getEnvDuration(v, "COUNTS_CACHE_TTL", 30*time.Second),
		WeekStart:          weekStart,
		SnapshotSchedule:   getEnv(v, "SNAPSHOT_SCHEDULE", "*/5 * * * *"),
		RunMigrations:      getEnvBool(v, "RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv(v, "MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:       int64(getEnvInt(v, "MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt(v, "RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool(v, "METRICS_ENABLED", true),
		ShutdownTimeout:    getEnvDuration(v, "SHUTDOWN_TIMEOUT", 10*time.Second),
	}, nil
}

func ParseWeekday(value string) (time.Weekday, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if value == name || value == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("WEEK_START %q is not a weekday", value)
}

func getEnv(v *viper.Viper, key, fallback string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(v *viper.Viper, key string, fallback bool) bool {
	value := getEnv(v, key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(v *viper.Viper, key string, fallback int) int {
	value := getEnv(v, key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	value := getEnv(v, key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.CountsCacheTTL < 0 {
		return fmt.Errorf("COUNTS_CACHE_TTL must not be negative")
	}
	if c.SnapshotSchedule != "" {
		if _, err := cron.ParseStandard(c.SnapshotSchedule); err != nil {
			return fmt.Errorf("SNAPSHOT_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}
