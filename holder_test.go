package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/CodeMyAss/Commodus/pkg/activity"
)

func newSettings() (*Holder, *Option[string], *Option[int], *Option[bool], *Option[string]) {
	h := NewHolder("settings")
	motd := Register(h, NewWithDefault(nil, "server.motd", "Welcome", "Message shown on join"))
	radius := Register(h, NewWithDefault(nil, "spawn.radius", 16))
	pvp := Register(h, NewWithDefault(nil, "worlds.%s.pvp", true, "PvP toggle per world"))
	prefix := Register(h, New[string](nil, "chat.prefix"))
	return h, motd, radius, pvp, prefix
}

func TestHolderOptionsInDeclarationOrder(t *testing.T) {
	h, motd, radius, pvp, prefix := newSettings()

	options := h.Options()
	want := []Descriptor{motd, radius, pvp, prefix}
	if len(options) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(options))
	}
	for i := range want {
		if options[i] != want[i] {
			t.Fatalf("option %d = %s, want %s", i, options[i].Path(), want[i].Path())
		}
	}
	if h.Len() != 4 || h.Name() != "settings" {
		t.Fatalf("unexpected holder metadata %s", h)
	}
}

func TestOptionsOfFiltersByType(t *testing.T) {
	h, motd, _, _, prefix := newSettings()

	stringOpts := OptionsOf[*Option[string]](h)
	if len(stringOpts) != 2 || stringOpts[0] != motd || stringOpts[1] != prefix {
		t.Fatalf("unexpected string options %v", stringOpts)
	}
	if got := OptionsOf[*Option[float64]](h); len(got) != 0 {
		t.Fatalf("expected no float options, got %v", got)
	}
	if got := OptionsOf[Descriptor](h); len(got) != 4 {
		t.Fatalf("expected all options through the interface, got %d", len(got))
	}
}

func TestRegisterDuplicatePathPanics(t *testing.T) {
	h := NewHolder("dup")
	Register(h, New[int](nil, "a"))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuplicatePath) {
			t.Fatalf("expected ErrDuplicatePath panic, got %v", r)
		}
	}()
	Register(h, New[string](nil, "a"))
}

func TestAddRejectsOptionOwnedByAnotherHolder(t *testing.T) {
	first := NewHolder("first")
	second := NewHolder("second")
	opt := Register(first, New[int](nil, "spawn.radius"))

	if err := second.Add(opt); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
	if opt.holder != first {
		t.Fatalf("option was rebound to %v", opt.holder)
	}
	if second.Len() != 0 {
		t.Fatalf("rejected option must not be registered, got %d", second.Len())
	}
	if err := first.Add(opt); !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("expected ErrDuplicatePath on re-adding, got %v", err)
	}
}

func TestHolderLookup(t *testing.T) {
	h, _, radius, _, _ := newSettings()
	got, ok := h.Lookup("spawn.radius")
	if !ok || got != radius {
		t.Fatalf("expected radius option, got %v %v", got, ok)
	}
	if _, ok := h.Lookup("missing"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestHolderCopyDefaults(t *testing.T) {
	h, _, _, _, _ := newSettings()
	backing := newMapStore(map[string]any{"spawn.radius": 32})

	written, err := h.CopyDefaults(backing)
	if err != nil {
		t.Fatalf("CopyDefaults: %v", err)
	}
	if len(written) != 1 || written[0] != "server.motd" {
		t.Fatalf("expected only motd written, got %v", written)
	}
	if backing.values["spawn.radius"] != 32 {
		t.Fatalf("existing value overwritten: %v", backing.values["spawn.radius"])
	}
	if _, err := h.CopyDefaults(nil); !errors.Is(err, ErrNilStore) {
		t.Fatalf("expected ErrNilStore, got %v", err)
	}
}

func TestHolderDescribeAndMarkdown(t *testing.T) {
	h, _, _, _, _ := newSettings()

	fields := h.Describe()
	if len(fields) != 4 {
		t.Fatalf("expected 4 descriptors, got %d", len(fields))
	}
	pvp := fields[2]
	if pvp.Path != "worlds.%s.pvp" || pvp.Type != "bool" || pvp.Default != true || pvp.Placeholders != 1 {
		t.Fatalf("unexpected descriptor %+v", pvp)
	}
	if fields[3].HasDefault || fields[3].Default != nil {
		t.Fatalf("prefix should have no default: %+v", fields[3])
	}

	md := h.Markdown()
	if !strings.Contains(md, "| `spawn.radius` | int | `16` |") {
		t.Fatalf("markdown missing radius row:\n%s", md)
	}

	comments := h.Comments()
	if _, ok := comments["worlds.%s.pvp"]; ok {
		t.Fatalf("templated paths must not appear in comment map")
	}
	if len(comments["server.motd"]) != 1 {
		t.Fatalf("expected motd comments, got %v", comments)
	}
}

func TestHolderAccessLogger(t *testing.T) {
	var events []AccessEvent
	h := NewHolder("logged", WithAccessLogger(AccessLoggerFunc(func(e AccessEvent) {
		events = append(events, e)
	})))
	opt := Register(h, NewWithDefault(nil, "spawn.radius", 8))
	backing := newMapStore(map[string]any{"spawn.radius": "bad"})

	if _, err := opt.Value(backing); err != nil {
		t.Fatalf("value: %v", err)
	}
	if err := opt.Set(backing, 4); err != nil {
		t.Fatalf("set: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Op != AccessRead || !events[0].Mismatch || events[0].Path != "spawn.radius" {
		t.Fatalf("unexpected read event %+v", events[0])
	}
	if events[1].Op != AccessWrite || events[1].Err != nil {
		t.Fatalf("unexpected write event %+v", events[1])
	}
}

func TestHolderActivityHooks(t *testing.T) {
	capture := &activity.CaptureHook{}
	h := NewHolder("audited", WithActivityHooks(activity.Hooks{capture}), WithActivityChannel("plugin"))
	opt := Register(h, NewWithDefault(nil, "worlds.%s.pvp", false))
	backing := newMapStore(map[string]any{"worlds.nether.pvp": false})

	if err := opt.Set(backing, true, "nether"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := opt.Reset(backing, "nether"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	verbs := capture.Verbs()
	if len(verbs) != 2 || verbs[0] != activity.VerbOptionUpdated || verbs[1] != activity.VerbOptionReset {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	first := capture.Events[0]
	if first.ObjectID != "worlds.nether.pvp" || first.Channel != "plugin" {
		t.Fatalf("unexpected event %+v", first)
	}
	if first.Metadata["old_value"] != false || first.Metadata["new_value"] != true || first.Metadata["holder"] != "audited" {
		t.Fatalf("unexpected metadata %+v", first.Metadata)
	}
}

func TestHolderActivityErrorsDoNotFailWrites(t *testing.T) {
	var logged AccessEvent
	capture := &activity.CaptureHook{Err: errBoom}
	h := NewHolder("audited",
		WithActivityHooks(activity.Hooks{capture}),
		WithAccessLogger(AccessLoggerFunc(func(e AccessEvent) { logged = e })),
	)
	opt := Register(h, New[int](nil, "a"))
	backing := newMapStore(nil)

	if err := opt.Set(backing, 1); err != nil {
		t.Fatalf("write should succeed, got %v", err)
	}
	if !errors.Is(logged.NotifyErr, errBoom) {
		t.Fatalf("expected hook error reported, got %+v", logged)
	}
}
