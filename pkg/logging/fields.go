package logging

import (
	"time"

	"go.uber.org/zap"
)

// Standard field keys
const (
	FieldOption   = "option"
	FieldPath     = "path"
	FieldOp       = "op"
	FieldSource   = "source"
	FieldFound    = "found"
	FieldLocked   = "locked"
	FieldMismatch = "mismatch"
	FieldDuration = "duration"
	FieldError    = "error"
	FieldHolder   = "holder"
	FieldFile     = "file"
	FieldKey      = "key"
	FieldEngine   = "engine"
	FieldExpr     = "expr"
)

// Option returns an option template field.
func Option(template string) zap.Field {
	return zap.String(FieldOption, template)
}

// Path returns a resolved path field.
func Path(path string) zap.Field {
	return zap.String(FieldPath, path)
}

// Holder returns a holder name field.
func Holder(name string) zap.Field {
	return zap.String(FieldHolder, name)
}

// File returns a config file field.
func File(path string) zap.Field {
	return zap.String(FieldFile, path)
}

// Key returns a backend key field.
func Key(key string) zap.Field {
	return zap.String(FieldKey, key)
}

// Duration returns a duration field.
func Duration(d time.Duration) zap.Field {
	return zap.Duration(FieldDuration, d)
}

// Error returns an error field; nil errors produce a skipped field.
func Error(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.Error(err)
}
