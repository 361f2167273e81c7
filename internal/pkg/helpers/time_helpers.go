package helpers

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a configured duration such as "30s" or "1h".
// An empty value silently yields fallback; an invalid one logs a warning
// and yields fallback too, as does a non-positive duration.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		// Global logger: this runs before and after logger.Configure.
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return duration
}
