package lock

import (
	"github.com/CodeMyAss/Commodus/pkg/activity"
	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/rules"
)

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	evaluator rules.Evaluator
	logger    *logging.Logger
	hooks     activity.Hooks
	channel   string
	actor     string
	metadata  map[string]any
}

// WithEvaluator compiles LockWhen expressions with evaluator.
func WithEvaluator(evaluator rules.Evaluator) Option {
	return func(cfg *registryConfig) {
		cfg.evaluator = evaluator
	}
}

// WithLogger reports rule failures and hook errors to logger.
func WithLogger(logger *logging.Logger) Option {
	return func(cfg *registryConfig) {
		if logger != nil {
			cfg.logger = logger.Named("lock")
		}
	}
}

// WithActivityHooks emits option.locked and option.unlocked events.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *registryConfig) {
		cfg.hooks = append(cfg.hooks, hooks...)
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *registryConfig) {
		cfg.channel = channel
	}
}

// WithActor records actor as the ActorID of emitted events.
func WithActor(actor string) Option {
	return func(cfg *registryConfig) {
		cfg.actor = actor
	}
}

// WithMetadata exposes metadata to rule expressions.
func WithMetadata(metadata map[string]any) Option {
	return func(cfg *registryConfig) {
		cfg.metadata = metadata
	}
}
