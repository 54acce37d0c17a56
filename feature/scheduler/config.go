package scheduler

import "time"

// AllowedIntervals lists the poll intervals, in minutes, the scheduler accepts.
var AllowedIntervals = []int{5, 10, 15, 30}

// Config holds polling settings.
type Config struct {
	// IntervalSeconds is the sleep between cycles of the periodic CLI.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"900"`
	// IntervalMinutes is the scheduler's initial poll interval.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"15"`
	// StopTimeoutSeconds bounds how long Stop waits for the loop to exit.
	StopTimeoutSeconds int `mapstructure:"stop_timeout_seconds" default:"5"`
}

// StopTimeout returns the Stop wait as a duration.
func (c Config) StopTimeout() time.Duration {
	if c.StopTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.StopTimeoutSeconds) * time.Second
}

// IsAllowedInterval reports whether minutes is an accepted poll interval.
func IsAllowedInterval(minutes int) bool {
	for _, m := range AllowedIntervals {
		if m == minutes {
			return true
		}
	}
	return false
}
