package logging

import (
	config "github.com/CodeMyAss/Commodus"
	"go.uber.org/zap"
)

// AccessLogger bridges option access events into structured logs. Reads and
// writes are logged at debug, failed accesses at warn, and hook failures at
// error.
func AccessLogger(l *Logger) config.AccessLogger {
	if l == nil {
		l = Nop()
	}
	return accessLogger{logger: l.Named("access")}
}

type accessLogger struct {
	logger *Logger
}

func (a accessLogger) LogAccess(event config.AccessEvent) {
	fields := []zap.Field{
		zap.String(FieldOp, string(event.Op)),
		Option(event.Option),
		Path(event.Path),
		Duration(event.Duration),
	}
	if event.Source != "" {
		fields = append(fields, zap.String(FieldSource, string(event.Source)))
	}
	if event.Op == config.AccessRead {
		fields = append(fields, zap.Bool(FieldFound, event.Found))
	}
	if event.Locked {
		fields = append(fields, zap.Bool(FieldLocked, true))
	}
	if event.Mismatch {
		fields = append(fields, zap.Bool(FieldMismatch, true))
	}

	switch {
	case event.Err != nil:
		a.logger.Warn("option access failed", append(fields, Error(event.Err))...)
	case event.NotifyErr != nil:
		a.logger.Error("option activity hook failed", append(fields, Error(event.NotifyErr))...)
	case event.Mismatch:
		a.logger.Debug("stored value has unexpected type", fields...)
	default:
		a.logger.Debug("option access", fields...)
	}
}
