package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/code-metrics/internal/metrics"
)

// ToCounterOptions converts a Config to metrics.CounterOptions.
func (c *Config) ToCounterOptions(logger *logrus.Logger) metrics.CounterOptions {
	return metrics.CounterOptions{
		Extension: c.Source.Extension,
		Ignore:    c.Source.Ignore,
		Logger:    logger,
	}
}

// LogLevel returns the parsed log level, falling back to warn.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// DebounceInterval returns the watch debounce as a duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
