package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultTTLSeconds is one hour.
	DefaultTTLSeconds = 3600

	// MinTTLSeconds is one minute.
	MinTTLSeconds = 60

	// MaxTTLSeconds is seven days.
	MaxTTLSeconds = 604800

	// DefaultMaxSizeMB caps the cache directory. Zero means unlimited.
	DefaultMaxSizeMB = 100

	minutesPerHour = 60
	hoursPerDay    = 24

	EnvTTLSeconds = "CELLSCOPE_CACHE_TTL_SECONDS"
	EnvEnabled    = "CELLSCOPE_CACHE_ENABLED"
	EnvDir        = "CELLSCOPE_CACHE_DIR"
	EnvMaxSizeMB  = "CELLSCOPE_CACHE_MAX_SIZE_MB"
)

// ErrInvalidTTL is returned for TTLs outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks seconds against the allowed range.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// ApplyEnv overrides opts with any CELLSCOPE_CACHE_* variables that are set
// and valid. Invalid values are ignored.
func ApplyEnv(opts Options) Options {
	if v := os.Getenv(EnvEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			opts.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvTTLSeconds); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ValidateTTL(ttl) == nil {
			opts.TTLSeconds = ttl
		}
	}
	if v := os.Getenv(EnvDir); v != "" {
		opts.Dir = v
	}
	if v := os.Getenv(EnvMaxSizeMB); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size >= 0 {
			opts.MaxSizeMB = size
		}
	}
	return opts
}

// FormatDuration renders d compactly, e.g. "45s", "30m", "1h30m", "2d3h".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}

// ParseTTL accepts integer seconds ("3600") or a Go duration ("1h30m").
func ParseTTL(s string) (int, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if vErr := ValidateTTL(seconds); vErr != nil {
			return 0, vErr
		}
		return seconds, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}
	seconds := int(d.Seconds())
	if vErr := ValidateTTL(seconds); vErr != nil {
		return 0, vErr
	}
	return seconds, nil
}
