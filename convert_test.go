package config

import (
	"reflect"
	"testing"
)

func TestCoerceConvertsDecodedValues(t *testing.T) {
	t.Run("list of strings", func(t *testing.T) {
		got, ok := coerce[[]string]([]any{"spam", "ads"})
		if !ok || !reflect.DeepEqual(got, []string{"spam", "ads"}) {
			t.Fatalf("got %#v ok=%v", got, ok)
		}
	})
	t.Run("empty list", func(t *testing.T) {
		got, ok := coerce[[]string]([]any{})
		if !ok || got == nil || len(got) != 0 {
			t.Fatalf("got %#v ok=%v", got, ok)
		}
	})
	t.Run("list of mixed elements", func(t *testing.T) {
		if got, ok := coerce[[]string]([]any{"spam", 3}); ok {
			t.Fatalf("expected rejection, got %#v", got)
		}
	})
	t.Run("nested lists", func(t *testing.T) {
		got, ok := coerce[[][]int]([]any{[]any{1, 2}, []any{3}})
		if !ok || !reflect.DeepEqual(got, [][]int{{1, 2}, {3}}) {
			t.Fatalf("got %#v ok=%v", got, ok)
		}
	})
	t.Run("list of floats from ints", func(t *testing.T) {
		got, ok := coerce[[]float64]([]any{1, 2.5})
		if !ok || !reflect.DeepEqual(got, []float64{1, 2.5}) {
			t.Fatalf("got %#v ok=%v", got, ok)
		}
	})
	t.Run("map of ints", func(t *testing.T) {
		got, ok := coerce[map[string]int](map[string]any{"admin": 10, "mod": 5})
		if !ok || !reflect.DeepEqual(got, map[string]int{"admin": 10, "mod": 5}) {
			t.Fatalf("got %#v ok=%v", got, ok)
		}
	})
	t.Run("whole float from int", func(t *testing.T) {
		got, ok := coerce[float64](2)
		if !ok || got != 2.0 {
			t.Fatalf("got %v ok=%v", got, ok)
		}
	})
	t.Run("int widened", func(t *testing.T) {
		got, ok := coerce[int64](16)
		if !ok || got != 16 {
			t.Fatalf("got %v ok=%v", got, ok)
		}
	})
	t.Run("named string", func(t *testing.T) {
		type mode string
		got, ok := coerce[mode]("survival")
		if !ok || got != mode("survival") {
			t.Fatalf("got %v ok=%v", got, ok)
		}
	})
}

func TestCoerceRejectsLossyValues(t *testing.T) {
	cases := []struct {
		name string
		fn   func() bool
	}{
		{name: "float into int", fn: func() bool { _, ok := coerce[int](2.0); return ok }},
		{name: "string into int", fn: func() bool { _, ok := coerce[int]("16"); return ok }},
		{name: "int into string", fn: func() bool { _, ok := coerce[string](16); return ok }},
		{name: "string into bool", fn: func() bool { _, ok := coerce[bool]("true"); return ok }},
		{name: "overflowing int8", fn: func() bool { _, ok := coerce[int8](300); return ok }},
		{name: "inexact float", fn: func() bool { _, ok := coerce[float64](int64(1<<53 + 1)); return ok }},
		{name: "scalar into list", fn: func() bool { _, ok := coerce[[]string]("spam"); return ok }},
		{name: "nil", fn: func() bool { _, ok := coerce[[]string](nil); return ok }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.fn() {
				t.Fatalf("expected %s to be rejected", tc.name)
			}
		})
	}
}

func TestValueReadsDecodedListsAndFloats(t *testing.T) {
	backing := newMapStore(map[string]any{
		"chat.blocked": []any{"spam", "ads"},
		"spawn.scale":  2,
		"spawn.radius": 2.0,
	})

	blocked := New[[]string](backing, "chat.blocked")
	got, ok, err := blocked.Lookup(backing)
	if err != nil || !ok || !reflect.DeepEqual(got, []string{"spam", "ads"}) {
		t.Fatalf("list lookup: %#v ok=%v err=%v", got, ok, err)
	}

	scale := NewWithDefault(backing, "spawn.scale", 1.5)
	value, trace, err := scale.ResolveWithTrace(backing, 0)
	if err != nil || value != 2.0 || trace.Source != SourceStore || trace.Mismatch {
		t.Fatalf("float read: %v %+v %v", value, trace, err)
	}

	radius := NewWithDefault(backing, "spawn.radius", 8)
	r, trace, err := radius.ResolveWithTrace(backing, 0)
	if err != nil || r != 8 || !trace.Mismatch || trace.Source != SourceDefault {
		t.Fatalf("float stored for int option must stay a mismatch: %v %+v %v", r, trace, err)
	}
}
