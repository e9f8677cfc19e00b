package xg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// XgConfig contains every tunable that influences the dashboard's numbers
// plus the runtime settings needed to reach the warehouse and serve results.
// This centralizes all magic numbers and constants for easy adjustment
type XgConfig struct {
	// === MODEL PARAMETERS ===

	MaxGoals      int     // Scoreline grid size 0..N-1 for the expected points estimator (default: 10)
	RollingWindow int     // Trailing window for rolling xG (default: 5)
	SeasonLength  int     // Matches in a season, used by the pace projection (default: 46)
	TargetPoints  float64 // Points target drawn alongside the pace lines (default: 80)
	FormLength    int     // Number of results in the form string (default: 5)

	// Points difference beyond which a team is "strongly" over/under performing
	StrongPointsDiff float64 // default: 2.0

	// === RUNTIME ===

	WarehouseDSN string        // sqlite file path or postgres:// url
	RedisURL     string        // empty disables the snapshot cache
	CacheTTL     time.Duration // snapshot cache lifetime (default: one week)
	HTTPAddr     string        // dashboard listen address (default: ":8080")
	CORSOrigins  []string      // allowed origins for the JSON API
	BadgeDir     string        // directory holding club badge images
	QueryTimeout time.Duration // per-request warehouse timeout (default: 30s)

	// === LOGGING ===

	LogOutput string // "c" console, "f" file, "b" both
	LogFile   string // log file path when LogOutput is "f" or "b"
	LogLevel  string // DEBUG, INFO, WARN, ERROR
}

// DefaultXgConfig returns the default configuration with all standard values
func DefaultXgConfig() *XgConfig {
	return &XgConfig{
		MaxGoals:         DefaultMaxGoals,
		RollingWindow:    DefaultRollingWindow,
		SeasonLength:     DefaultSeasonLength,
		TargetPoints:     DefaultTargetPoints,
		FormLength:       DefaultFormLength,
		StrongPointsDiff: 2.0,

		WarehouseDSN: "xgdash.db",
		RedisURL:     "",
		CacheTTL:     7 * 24 * time.Hour,
		HTTPAddr:     ":8080",
		CORSOrigins:  []string{"*"},
		BadgeDir:     "./badges",
		QueryTimeout: 30 * time.Second,

		LogOutput: "c",
		LogFile:   "/tmp/xgdash.log",
		LogLevel:  "INFO",
	}
}

// Global configuration instance
var Config *XgConfig

// init initializes the global configuration with default values
func init() {
	Config = DefaultXgConfig()
}

// UpdateConfig allows updating the global configuration
func UpdateConfig(newConfig *XgConfig) {
	Config = newConfig
}

// LoadFromEnv overlays XGDASH_* environment variables onto a copy of base
func LoadFromEnv(base *XgConfig) (*XgConfig, error) {
	c := *base
	c.CORSOrigins = append([]string(nil), base.CORSOrigins...)

	var err error
	if c.MaxGoals, err = envInt("XGDASH_MAX_GOALS", c.MaxGoals); err != nil {
		return nil, err
	}
	if c.RollingWindow, err = envInt("XGDASH_ROLLING_WINDOW", c.RollingWindow); err != nil {
		return nil, err
	}
	if c.SeasonLength, err = envInt("XGDASH_SEASON_LENGTH", c.SeasonLength); err != nil {
		return nil, err
	}
	if c.TargetPoints, err = envFloat("XGDASH_TARGET_POINTS", c.TargetPoints); err != nil {
		return nil, err
	}
	if c.FormLength, err = envInt("XGDASH_FORM_LENGTH", c.FormLength); err != nil {
		return nil, err
	}
	if c.StrongPointsDiff, err = envFloat("XGDASH_STRONG_POINTS_DIFF", c.StrongPointsDiff); err != nil {
		return nil, err
	}
	if c.CacheTTL, err = envDuration("XGDASH_CACHE_TTL", c.CacheTTL); err != nil {
		return nil, err
	}
	if c.QueryTimeout, err = envDuration("XGDASH_QUERY_TIMEOUT", c.QueryTimeout); err != nil {
		return nil, err
	}

	c.WarehouseDSN = envString("XGDASH_WAREHOUSE_DSN", c.WarehouseDSN)
	c.RedisURL = envString("XGDASH_REDIS_URL", c.RedisURL)
	c.HTTPAddr = envString("XGDASH_HTTP_ADDR", c.HTTPAddr)
	c.BadgeDir = envString("XGDASH_BADGE_DIR", c.BadgeDir)
	c.LogOutput = envString("XGDASH_LOG_OUTPUT", c.LogOutput)
	c.LogFile = envString("XGDASH_LOG_FILE", c.LogFile)
	c.LogLevel = envString("XGDASH_LOG_LEVEL", c.LogLevel)

	if origins := os.Getenv("XGDASH_CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	return &c, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *XgConfig) error {
	if config.MaxGoals < 1 {
		return fmt.Errorf("MaxGoals must be at least 1, got: %d", config.MaxGoals)
	}
	if config.RollingWindow < 1 {
		return fmt.Errorf("RollingWindow must be at least 1, got: %d", config.RollingWindow)
	}
	if config.SeasonLength < 1 {
		return fmt.Errorf("SeasonLength must be at least 1, got: %d", config.SeasonLength)
	}
	if config.TargetPoints < 0 {
		return fmt.Errorf("TargetPoints must not be negative, got: %f", config.TargetPoints)
	}
	if config.FormLength < 1 {
		return fmt.Errorf("FormLength must be at least 1, got: %d", config.FormLength)
	}
	if config.StrongPointsDiff <= 0 {
		return fmt.Errorf("StrongPointsDiff must be positive, got: %f", config.StrongPointsDiff)
	}
	if config.CacheTTL < 0 {
		return fmt.Errorf("CacheTTL must not be negative, got: %s", config.CacheTTL)
	}
	switch config.LogOutput {
	case "c", "f", "b":
	default:
		return fmt.Errorf("LogOutput must be one of c, f or b, got: %q", config.LogOutput)
	}
	if config.WarehouseDSN == "" {
		return fmt.Errorf("WarehouseDSN must not be empty")
	}
	return nil
}
