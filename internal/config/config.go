package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Leave      LeaveConfig
	Attendance AttendanceConfig
	Scheduler  SchedulerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

type HTTPConfig struct {
	AllowedOrigins    []string
	RateLimitPerMin   int // zero disables rate limiting
	RateLimitBurst    int
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// LeaveConfig controls the leave ledger
type LeaveConfig struct {
	CatalogFile    string // empty uses the built-in catalog
	AllowOverdraw  bool
	MaxRequestDays int // zero means no cap
}

type AttendanceConfig struct {
	LogFile  string
	CacheTTL time.Duration
}

type SchedulerConfig struct {
	Enabled              bool
	AttendanceReloadSpec string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "hris-leave-ledger"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// HTTP configuration
	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	rateBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	readHeaderTimeout, err := time.ParseDuration(getEnv("READ_HEADER_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid READ_HEADER_TIMEOUT: %w", err)
	}

	config.HTTP = HTTPConfig{
		AllowedOrigins:    getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitPerMin:   rateLimit,
		RateLimitBurst:    rateBurst,
		ShutdownTimeout:   shutdownTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Leave configuration
	allowOverdraw, err := strconv.ParseBool(getEnv("LEAVE_ALLOW_OVERDRAW", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_ALLOW_OVERDRAW: %w", err)
	}
	maxRequestDays, err := strconv.Atoi(getEnv("LEAVE_MAX_REQUEST_DAYS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_MAX_REQUEST_DAYS: %w", err)
	}

	config.Leave = LeaveConfig{
		CatalogFile:    getEnv("LEAVE_CATALOG_FILE", ""),
		AllowOverdraw:  allowOverdraw,
		MaxRequestDays: maxRequestDays,
	}

	// Attendance configuration
	cacheTTL, err := time.ParseDuration(getEnv("ATTENDANCE_CACHE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_CACHE_TTL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		LogFile:  getEnv("ATTENDANCE_LOG_FILE", ""),
		CacheTTL: cacheTTL,
	}

	// Scheduler configuration
	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	config.Scheduler = SchedulerConfig{
		Enabled:              schedulerEnabled,
		AttendanceReloadSpec: getEnv("ATTENDANCE_RELOAD_CRON", "0 0 0 * * *"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.HTTP.RateLimitPerMin < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.HTTP.RateLimitPerMin > 0 && c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.Leave.MaxRequestDays < 0 {
		return fmt.Errorf("LEAVE_MAX_REQUEST_DAYS must not be negative")
	}
	if c.Attendance.CacheTTL <= 0 {
		return fmt.Errorf("ATTENDANCE_CACHE_TTL must be positive")
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.AttendanceReloadSpec) == "" {
		return fmt.Errorf("ATTENDANCE_RELOAD_CRON is required when the scheduler is enabled")
	}
	return nil
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error)
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.App.LogLevel, err)
	}
	return level, nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
