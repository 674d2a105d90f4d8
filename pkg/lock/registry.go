// Package lock provides an options registry that can pin option values,
// overriding whatever the backing config holds.
//
// A lock applies to every resolved path of an option (Lock), to one argument
// list (LockFor), or to the paths for which a rule expression evaluates to true
// (LockWhen). When several locks match, the exact argument lock wins, then the
// first matching rule in declaration order, then the unconditional lock.
package lock

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/activity"
	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/rules"
	"go.uber.org/zap"
)

var (
	// ErrNilOption is returned when a lock is requested for a nil option.
	ErrNilOption = errors.New("lock: option is nil")
	// ErrNilValue is returned when a lock would pin a nil value.
	ErrNilValue = errors.New("lock: locked value must not be nil")
)

// Registry implements config.Registry.
type Registry struct {
	wrapper   config.Wrapper
	evaluator rules.Evaluator
	logger    *logging.Logger
	emitter   *activity.Emitter
	actor     string
	metadata  map[string]any

	mu    sync.RWMutex
	locks map[string]*optionLocks
}

type optionLocks struct {
	value    any
	hasValue bool
	exact    map[string]any
	rules    []ruleLock
}

type ruleLock struct {
	expression string
	rule       rules.CompiledRule
	value      any
}

var _ config.Registry = (*Registry)(nil)

// New creates a registry over wrapper. Rules are compiled with expr-lang
// unless WithEvaluator says otherwise.
func New(wrapper config.Wrapper, opts ...Option) *Registry {
	cfg := registryConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	r := &Registry{
		wrapper:   wrapper,
		evaluator: cfg.evaluator,
		logger:    cfg.logger,
		actor:     cfg.actor,
		metadata:  maps.Clone(cfg.metadata),
		locks:     map[string]*optionLocks{},
	}
	if r.evaluator == nil {
		r.evaluator = rules.NewExprEvaluator()
	}
	if r.logger == nil {
		r.logger = logging.Nop()
	}
	if len(cfg.hooks) > 0 {
		r.emitter = activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: true,
			Channel: cfg.channel,
		})
	}
	return r
}

// Config returns the wrapper the registry reads unlocked values from.
func (r *Registry) Config() config.Wrapper {
	return r.wrapper
}

// Lock pins value for every resolved path of option.
func (r *Registry) Lock(option config.Descriptor, value any) error {
	if err := validate(option, value); err != nil {
		return err
	}
	r.mu.Lock()
	locks := r.entry(option.Path())
	locks.value = value
	locks.hasValue = true
	r.mu.Unlock()

	r.emit(activity.BuildOptionLockedEvent(r.eventInput(option.Path(), "", value, nil)))
	return nil
}

// LockFor pins value for the path option resolves to with replacements.
func (r *Registry) LockFor(option config.Descriptor, value any, replacements ...string) error {
	if err := validate(option, value); err != nil {
		return err
	}
	path, err := config.ResolvePath(option.Path(), replacements...)
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	r.mu.Lock()
	locks := r.entry(option.Path())
	if locks.exact == nil {
		locks.exact = map[string]any{}
	}
	locks.exact[path] = value
	r.mu.Unlock()

	r.emit(activity.BuildOptionLockedEvent(r.eventInput(option.Path(), path, value, nil)))
	return nil
}

// LockWhen pins value for every resolved path of option where expression
// evaluates to true. The expression sees option, path, args, now and metadata.
func (r *Registry) LockWhen(option config.Descriptor, value any, expression string) error {
	if err := validate(option, value); err != nil {
		return err
	}
	rule, err := r.evaluator.Compile(expression)
	if err != nil {
		return fmt.Errorf("lock: compile rule for %s: %w", option.Path(), err)
	}
	r.mu.Lock()
	locks := r.entry(option.Path())
	locks.rules = append(locks.rules, ruleLock{
		expression: expression,
		rule:       rule,
		value:      value,
	})
	r.mu.Unlock()

	r.emit(activity.BuildOptionLockedEvent(r.eventInput(option.Path(), "", value, map[string]any{
		"expression": expression,
		"engine":     rules.EngineName(r.evaluator),
	})))
	return nil
}

// Unlock removes every lock held for option and reports whether there was
// any.
func (r *Registry) Unlock(option config.Descriptor) bool {
	if option == nil {
		return false
	}
	r.mu.Lock()
	_, ok := r.locks[option.Path()]
	delete(r.locks, option.Path())
	r.mu.Unlock()

	if ok {
		r.emit(activity.BuildOptionUnlockedEvent(r.eventInput(option.Path(), "", nil, nil)))
	}
	return ok
}

// IsLocked reports whether a lock applies to option resolved with
// replacements.
func (r *Registry) IsLocked(option config.Descriptor, replacements ...string) bool {
	_, ok := r.LockedValue(option, replacements...)
	return ok
}

// LockedValue returns the value pinned for option resolved with
// replacements.
func (r *Registry) LockedValue(option config.Descriptor, replacements ...string) (any, bool) {
	if option == nil {
		return nil, false
	}
	template := option.Path()

	r.mu.RLock()
	defer r.mu.RUnlock()
	locks, ok := r.locks[template]
	if !ok {
		return nil, false
	}

	path, pathErr := config.ResolvePath(template, replacements...)
	if pathErr == nil {
		if value, ok := locks.exact[path]; ok {
			return value, true
		}
	}

	if len(locks.rules) > 0 {
		ctx := rules.Context{
			Option:   template,
			Path:     path,
			Args:     replacements,
			Metadata: r.metadata,
		}
		for _, lock := range locks.rules {
			matched, err := rules.Bool(lock.rule, ctx)
			if err != nil {
				r.logger.Warn("lock rule failed",
					logging.Option(template),
					logging.Path(path),
					zap.String(logging.FieldExpr, lock.expression),
					logging.Error(err),
				)
				continue
			}
			if matched {
				return lock.value, true
			}
		}
	}

	if locks.hasValue {
		return locks.value, true
	}
	return nil, false
}

// Locked returns the path templates that currently hold at least one lock.
func (r *Registry) Locked() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	templates := make([]string, 0, len(r.locks))
	for template := range r.locks {
		templates = append(templates, template)
	}
	sort.Strings(templates)
	return templates
}

func (r *Registry) entry(template string) *optionLocks {
	locks, ok := r.locks[template]
	if !ok {
		locks = &optionLocks{}
		r.locks[template] = locks
	}
	return locks
}

func (r *Registry) eventInput(template, path string, value any, metadata map[string]any) activity.OptionEventInput {
	return activity.OptionEventInput{
		ActorID:  r.actor,
		Option:   template,
		Path:     path,
		NewValue: value,
		Metadata: metadata,
	}
}

func (r *Registry) emit(event activity.Event) {
	if !r.emitter.Enabled() {
		return
	}
	if err := r.emitter.Emit(context.Background(), event); err != nil {
		r.logger.Error("lock activity hook failed",
			zap.String("verb", event.Verb),
			zap.String("object", event.ObjectID),
			logging.Error(err),
		)
	}
}

func validate(option config.Descriptor, value any) error {
	if option == nil {
		return ErrNilOption
	}
	if value == nil {
		return fmt.Errorf("%w: %s", ErrNilValue, option.Path())
	}
	return nil
}
