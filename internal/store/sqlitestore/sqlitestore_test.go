package sqlitestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/quicklinks/internal/model"
	"github.com/idilsaglam/quicklinks/internal/store"
)

func open(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(context.Background(), dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	s := open(t, t.TempDir())

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := store.New(open(t, dir))
	require.NoError(t, first.Initialize(ctx))
	res, err := first.AddInfo(ctx, "Email", "a@b.com", []string{"work"})
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())

	second := store.New(open(t, dir))
	require.NoError(t, second.Initialize(ctx))
	assert.Equal(t, first.Blocks(), second.Blocks())
}

func TestWatchSeesOtherConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	watcher := open(t, dir)
	watcher.PollInterval = 10 * time.Millisecond
	ch, err := watcher.Watch(ctx)
	require.NoError(t, err)

	writer := open(t, dir)
	raw, err := model.EncodeBlocks(model.DefaultBlocks())
	require.NoError(t, err)
	require.NoError(t, writer.Set(ctx, store.BlocksKey, string(raw)))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal")
	}
}
