package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var out []payload
	found, err := store.Load(ctx, KeyIngredients, &out)
	require.NoError(t, err)
	assert.False(t, found, "missing key should report not found")

	in := []payload{{Name: "espresso beans", Count: 3}, {Name: "milk", Count: 1}}
	require.NoError(t, store.Save(ctx, KeyIngredients, in))

	found, err = store.Load(ctx, KeyIngredients, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, KeyRecipes, []payload{{Name: "a"}}))
	require.NoError(t, store.Save(ctx, KeyRecipes, []payload{{Name: "b"}}))

	var out []payload
	found, err := store.Load(ctx, KeyRecipes, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Name)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var out []payload
	found, err := store.Load(ctx, KeyIngredients, &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := []payload{{Name: "cocoa", Count: 7}}
	require.NoError(t, store.Save(ctx, KeyIngredients, in))

	found, err = store.Load(ctx, KeyIngredients, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeyProducts, []payload{{Name: "latte"}}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	var out []payload
	found, err := reopened.Load(ctx, KeyProducts, &out)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, out, 1)
	assert.Equal(t, "latte", out[0].Name)
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, KeyIngredients, []payload{{Name: "x"}}))

	// Clobber the file with invalid JSON.
	require.NoError(t, os.WriteFile(store.path(KeyIngredients), []byte("{not json"), 0o644))

	var out []payload
	_, err = store.Load(ctx, KeyIngredients, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}
