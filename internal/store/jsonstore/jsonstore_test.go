package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/store"
)

func TestGetMissingFile(t *testing.T) {
	s := New(t.TempDir(), nil)
	v, ok, err := s.Get(context.Background(), store.BlocksKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	s := New(dir, nil)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "a", "3"))

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	v, _, _ = s.Get(ctx, "b")
	assert.Equal(t, "2", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, DataFileName, entries[0].Name())
}

func TestSetKeepsOtherWritersKeys(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := New(dir, nil)
	b := New(dir, nil)

	require.NoError(t, a.Set(ctx, store.BlocksKey, "[]"))
	require.NoError(t, b.Set(ctx, store.ActiveBlockKey, "x"))

	v, ok, err := a.Get(ctx, store.BlocksKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
}

func TestCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DataFileName), []byte("nope"), 0o644))
	_, _, err := New(dir, nil).Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestStoreOverJSONFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := store.New(New(dir, nil))
	require.NoError(t, first.Initialize(ctx))
	res, err := first.AddLink(ctx, "Git", "https://git.example", []string{"dev"}, "")
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())

	reopened := store.New(New(dir, nil))
	require.NoError(t, reopened.Initialize(ctx))
	assert.Equal(t, first.Blocks(), reopened.Blocks())
	assert.Equal(t, "personal", reopened.ActiveBlockID())

	items := reopened.Items(store.ScopeActive, "DEV")
	require.Len(t, items, 1)
	assert.Equal(t, model.KindLink, items[0].Kind())
}

func TestFollowAcrossFileStores(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	popup := store.New(New(dir, nil))
	require.NoError(t, popup.Initialize(ctx))
	sidebar := store.New(New(dir, nil))
	require.NoError(t, sidebar.Initialize(ctx))

	following, err := sidebar.Follow(ctx)
	require.NoError(t, err)
	require.True(t, following)

	_, err = popup.CreateBlock(ctx, "Travel", model.IconLink)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sidebar.Blocks()) == 4
	}, 3*time.Second, 20*time.Millisecond)
}
