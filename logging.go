package config

import "time"

// AccessOp names the kind of option access being logged.
type AccessOp string

const (
	AccessRead  AccessOp = "read"
	AccessWrite AccessOp = "write"
	AccessReset AccessOp = "reset"
)

// AccessEvent describes a single option read or write.
type AccessEvent struct {
	Op       AccessOp
	Option   string
	Path     string
	Source   Source
	Found    bool
	Locked   bool
	Mismatch bool
	Duration time.Duration
	Err      error

	// NotifyErr carries activity hook failures; the write itself succeeded.
	NotifyErr error
}

// AccessLogger records option access events.
type AccessLogger interface {
	LogAccess(AccessEvent)
}

// AccessLoggerFunc adapts a function to AccessLogger.
type AccessLoggerFunc func(AccessEvent)

// LogAccess implements AccessLogger.
func (f AccessLoggerFunc) LogAccess(event AccessEvent) {
	if f != nil {
		f(event)
	}
}

type noopAccessLogger struct{}

func (noopAccessLogger) LogAccess(AccessEvent) {}

// TeeAccessLogger fans events out to every non-nil logger.
func TeeAccessLogger(loggers ...AccessLogger) AccessLogger {
	kept := make([]AccessLogger, 0, len(loggers))
	for _, logger := range loggers {
		if logger != nil {
			kept = append(kept, logger)
		}
	}
	return AccessLoggerFunc(func(event AccessEvent) {
		for _, logger := range kept {
			logger.LogAccess(event)
		}
	})
}
