package orchestrator

import (
	"os"
	"time"
)

var (
	// CheckTimeout bounds a release notes check, including git tag iteration
	CheckTimeout = timeoutFromEnv("CHECK_TIMEOUT", 5*time.Minute)
)

// timeoutFromEnv returns the duration in envVar, or fallback when unset or unparsable
func timeoutFromEnv(envVar string, fallback time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil && duration > 0 {
			return duration
		}
	}
	return fallback
}
