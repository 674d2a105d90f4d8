package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeMyAss/Commodus/pkg/store"
)

func TestWrapperSaveHandsOverSnapshot(t *testing.T) {
	t.Parallel()

	var saved map[string]any
	w := store.NewWrapper(nil, func(snapshot map[string]any) error {
		saved = snapshot
		return nil
	})
	require.NoError(t, w.Store().Set("spawn.radius", 16))
	require.NoError(t, w.Save())
	assert.Equal(t, map[string]any{"spawn": map[string]any{"radius": 16}}, saved)

	require.NoError(t, w.Memory().Set("spawn.radius", 32))
	assert.Equal(t, 16, saved["spawn"].(map[string]any)["radius"], "snapshot must not alias the tree")
}

func TestWrapperSaveError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	w := store.NewWrapper(store.NewMemoryStore(), func(map[string]any) error { return boom })
	assert.ErrorIs(t, w.Save(), boom)
	assert.NoError(t, store.NewWrapper(nil, nil).Save())
}
