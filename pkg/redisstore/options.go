package redisstore

import (
	"time"

	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithPrefix namespaces every key with prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTimeout bounds each Redis call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for failed operations.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.Named("redisstore")
		}
	}
}

// WithMetrics records operation counts and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}
