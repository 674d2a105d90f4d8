package yamlconfig

import (
	"os"
	"time"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/logging"
)

// Option configures a Config.
type Option func(*Config)

// WithHolder attaches a holder whose comments are written on save and whose
// defaults CopyDefaults fills in.
func WithHolder(holder *config.Holder) Option {
	return func(c *Config) {
		if holder != nil {
			c.holders = append(c.holders, holder)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger.Named("yamlconfig")
		}
	}
}

// WithDebounce sets how long Watch waits for writes to settle before
// reloading.
func WithDebounce(delay time.Duration) Option {
	return func(c *Config) {
		if delay > 0 {
			c.debounce = delay
		}
	}
}

// WithFileMode sets the permissions used when the file is created.
func WithFileMode(perm os.FileMode) Option {
	return func(c *Config) {
		c.perm = perm
	}
}
