package utils

import (
	"os"
	"strconv"
	"time"
)

// Env reads key from the environment, falling back to def when unset or empty.
func Env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// EnvInt reads a positive integer from the environment. Unset, empty,
// non-numeric or non-positive values all fall back to def.
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// EnvDuration reads a time.Duration (e.g. "500ms", "2s") from the environment,
// falling back to def when unset or unparseable.
func EnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
