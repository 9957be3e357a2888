package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser   BrowserConfig
	Navigator NavigatorConfig
	Fetch     FetchConfig
	Log       LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all browser and HTTP traffic.
	Proxy string

	// Stealth toggles stealth JS injection before navigation.
	Stealth bool // default: true

	// BlockedResourceTypes lists resource types blocked during navigation.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// NavigatorConfig controls listing navigation and the load-wait loop.
type NavigatorConfig struct {
	// NavTimeout is the max time for a single page navigation.
	NavTimeout time.Duration // default: 15s

	// WaitAttempts is the number of wait/scroll rounds before giving up.
	WaitAttempts int // default: 5

	// WaitDelay is the pause between wait/scroll rounds.
	WaitDelay time.Duration // default: 3s

	// SortByBestScore toggles the best-effort "Best Score" sort selection.
	SortByBestScore bool // default: true
}

// FetchConfig controls the HTTP version-page fetcher.
type FetchConfig struct {
	// Timeout is the deadline for a single HTTP fetch.
	Timeout time.Duration // default: 10s

	// RatePerSecond is the sustained request rate against the site.
	RatePerSecond float64 // default: 2

	// Burst is the token-bucket burst size.
	Burst int // default: 3

	// CacheMaxEntries bounds the in-memory fetch cache.
	CacheMaxEntries int // default: 256
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:   envBoolOr("KERNELPROF_HEADLESS", true),
			NoSandbox:  envBoolOr("KERNELPROF_NO_SANDBOX", false),
			BrowserBin: os.Getenv("KERNELPROF_BROWSER_BIN"),
			Proxy:      os.Getenv("KERNELPROF_PROXY"),
			Stealth:    envBoolOr("KERNELPROF_STEALTH", true),
			BlockedResourceTypes: envSliceOr("KERNELPROF_BLOCKED_RESOURCES", []string{
				"Stylesheet", "Font", "Media",
			}),
		},
		Navigator: NavigatorConfig{
			NavTimeout:      envDurationOr("KERNELPROF_NAV_TIMEOUT", 15*time.Second),
			WaitAttempts:    envIntOr("KERNELPROF_WAIT_ATTEMPTS", 5),
			WaitDelay:       envDurationOr("KERNELPROF_WAIT_DELAY", 3*time.Second),
			SortByBestScore: envBoolOr("KERNELPROF_SORT_BEST_SCORE", true),
		},
		Fetch: FetchConfig{
			Timeout:         envDurationOr("KERNELPROF_FETCH_TIMEOUT", 10*time.Second),
			RatePerSecond:   envFloatOr("KERNELPROF_FETCH_RPS", 2.0),
			Burst:           envIntOr("KERNELPROF_FETCH_BURST", 3),
			CacheMaxEntries: envIntOr("KERNELPROF_CACHE_MAX_ENTRIES", 256),
		},
		Log: LogConfig{
			Level:  envOr("KERNELPROF_LOG_LEVEL", "info"),
			Format: envOr("KERNELPROF_LOG_FORMAT", "text"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
