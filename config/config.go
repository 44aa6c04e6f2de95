package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	Port      string
	AWSRegion string
	S3Bucket  string
	JWTSecret string

	// SessionWindow is the timed pairing window; TickInterval is the
	// countdown broadcast granularity.
	SessionWindow time.Duration
	TickInterval  time.Duration

	// MatchGracePeriod is how old a non-terminal match record may be
	// before the background sweep marks it ended.
	MatchGracePeriod time.Duration
	SweepInterval    time.Duration

	// TestingAutoAccept resolves a lone "yes" as mutual. Test-mode only;
	// it breaks mutual-consent semantics and must never ship enabled.
	TestingAutoAccept bool
}

// Load reads configuration from the environment with fallbacks.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET_NAME", ""),
		JWTSecret:         getEnv("JWT_SECRET", "super-secret-key-change-me"),
		SessionWindow:     getSeconds("SESSION_WINDOW_SECONDS", 180),
		TickInterval:      time.Second,
		MatchGracePeriod:  getMinutes("MATCH_GRACE_MINUTES", 10),
		SweepInterval:     getMinutes("SWEEP_INTERVAL_MINUTES", 5),
		TestingAutoAccept: getBool("TESTING_AUTO_ACCEPT", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getSeconds(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Second
}

func getMinutes(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Minute
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
