package lock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/activity"
	"github.com/CodeMyAss/Commodus/pkg/lock"
	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/rules"
	"github.com/CodeMyAss/Commodus/pkg/store"
)

var (
	pvpOption    = config.NewWithDefault(nil, "worlds.%s.pvp", true)
	radiusOption = config.NewWithDefault(nil, "spawn.radius", 16)
)

func newWrapper(t *testing.T) *store.Wrapper {
	t.Helper()
	w := store.NewWrapper(nil, nil)
	require.NoError(t, w.Store().Set("worlds.nether.pvp", true))
	require.NoError(t, w.Store().Set("worlds.end.pvp", true))
	require.NoError(t, w.Store().Set("spawn.radius", 24))
	return w
}

func TestUnconditionalLock(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t))
	require.NoError(t, reg.Lock(radiusOption, 8))

	assert.True(t, reg.IsLocked(radiusOption))
	value, err := radiusOption.ValueFrom(reg)
	require.NoError(t, err)
	assert.Equal(t, 8, value)

	assert.True(t, reg.Unlock(radiusOption))
	assert.False(t, reg.Unlock(radiusOption))
	value, err = radiusOption.ValueFrom(reg)
	require.NoError(t, err)
	assert.Equal(t, 24, value)
}

func TestLockForSpecificArguments(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t))
	require.NoError(t, reg.LockFor(pvpOption, false, "nether"))

	assert.True(t, reg.IsLocked(pvpOption, "nether"))
	assert.False(t, reg.IsLocked(pvpOption, "end"))
	assert.False(t, reg.IsLocked(pvpOption))

	nether, err := pvpOption.ValueFrom(reg, "nether")
	require.NoError(t, err)
	assert.False(t, nether)
	end, err := pvpOption.ValueFrom(reg, "end")
	require.NoError(t, err)
	assert.True(t, end)

	err = reg.LockFor(pvpOption, false)
	assert.ErrorIs(t, err, config.ErrInvalidArgument)
}

func TestLockPrecedence(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t))
	require.NoError(t, reg.Lock(pvpOption, "any"))
	require.NoError(t, reg.LockWhen(pvpOption, "rule", `args[0] startsWith "n"`))
	require.NoError(t, reg.LockWhen(pvpOption, "second-rule", `len(args) > 0`))
	require.NoError(t, reg.LockFor(pvpOption, "exact", "nether"))

	tests := []struct {
		name string
		args []string
		want any
	}{
		{name: "exact beats rules", args: []string{"nether"}, want: "exact"},
		{name: "first matching rule", args: []string{"north"}, want: "rule"},
		{name: "later rule", args: []string{"end"}, want: "second-rule"},
		{name: "unconditional fallback", args: nil, want: "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := reg.LockedValue(pvpOption, tt.args...)
			require.True(t, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestLockWhenWithCEL(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t),
		lock.WithEvaluator(rules.NewCELEvaluator()),
		lock.WithMetadata(map[string]any{"event": "tournament"}),
	)
	require.NoError(t, reg.LockWhen(pvpOption, false, `path == "worlds.end.pvp" && metadata["event"] == "tournament"`))

	end, err := pvpOption.ValueFrom(reg, "end")
	require.NoError(t, err)
	assert.False(t, end)
	nether, err := pvpOption.ValueFrom(reg, "nether")
	require.NoError(t, err)
	assert.True(t, nether)
}

func TestLockWhenCompileError(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t))
	err := reg.LockWhen(pvpOption, false, `args[0] ==`)
	var evalErr *rules.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, rules.EngineExpr, evalErr.Engine)
	assert.Empty(t, reg.Locked())
}

func TestRuleErrorsAreNotLockedAndLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	reg := lock.New(newWrapper(t), lock.WithLogger(logging.New(zap.New(core))))
	require.NoError(t, reg.LockWhen(radiusOption, 1, `path`))

	assert.False(t, reg.IsLocked(radiusOption))
	require.Equal(t, 1, logs.FilterMessage("lock rule failed").Len())
	entry := logs.FilterMessage("lock rule failed").All()[0]
	assert.Equal(t, "lock", entry.LoggerName)
	assert.Equal(t, "path", entry.ContextMap()[logging.FieldExpr])
}

func TestLockValidation(t *testing.T) {
	t.Parallel()

	reg := lock.New(nil)
	assert.ErrorIs(t, reg.Lock(nil, 1), lock.ErrNilOption)
	assert.ErrorIs(t, reg.Lock(radiusOption, nil), lock.ErrNilValue)
	assert.False(t, reg.IsLocked(nil))
	assert.False(t, reg.Unlock(nil))
	assert.Nil(t, reg.Config())
}

func TestLockedValueOfWrongTypeFallsThrough(t *testing.T) {
	t.Parallel()

	reg := lock.New(newWrapper(t))
	require.NoError(t, reg.Lock(radiusOption, "eight"))

	value, trace, err := radiusOption.ResolveFromWithTrace(reg, 0)
	require.NoError(t, err)
	assert.Equal(t, 24, value)
	assert.Equal(t, config.SourceStore, trace.Source)
}

func TestSetViaSavesWrapper(t *testing.T) {
	t.Parallel()

	saves := 0
	w := store.NewWrapper(nil, func(map[string]any) error {
		saves++
		return nil
	})
	reg := lock.New(w)

	require.NoError(t, pvpOption.SetVia(reg, false, "overworld"))
	assert.Equal(t, 1, saves)

	value, ok, err := w.Store().Get("worlds.overworld.pvp")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, false, value)
}

func TestLockActivityEvents(t *testing.T) {
	t.Parallel()

	capture := &activity.CaptureHook{}
	reg := lock.New(newWrapper(t),
		lock.WithActivityHooks(activity.Hooks{capture}),
		lock.WithActor("admin"),
	)
	require.NoError(t, reg.LockFor(pvpOption, false, "nether"))
	require.NoError(t, reg.LockWhen(radiusOption, 4, `true`))
	require.True(t, reg.Unlock(pvpOption))

	assert.Equal(t, []string{
		activity.VerbOptionLocked,
		activity.VerbOptionLocked,
		activity.VerbOptionUnlocked,
	}, capture.Verbs())

	first := capture.Events[0]
	assert.Equal(t, "admin", first.ActorID)
	assert.Equal(t, "worlds.nether.pvp", first.ObjectID)
	assert.Equal(t, activity.DefaultChannel, first.Channel)
	assert.Equal(t, false, first.Metadata["new_value"])

	second := capture.Events[1]
	assert.Equal(t, "spawn.radius", second.ObjectID)
	assert.Equal(t, "true", second.Metadata["expression"])
	assert.Equal(t, rules.EngineExpr, second.Metadata["engine"])

	assert.Equal(t, "worlds.%s.pvp", capture.Events[2].ObjectID)
}

func TestLockHookErrorsAreLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	reg := lock.New(newWrapper(t),
		lock.WithActivityHooks(activity.Hooks{&activity.CaptureHook{Err: errors.New("sink down")}}),
		lock.WithLogger(logging.New(zap.New(core))),
	)
	require.NoError(t, reg.Lock(radiusOption, 1))
	assert.Equal(t, 1, logs.FilterMessage("lock activity hook failed").Len())
}
