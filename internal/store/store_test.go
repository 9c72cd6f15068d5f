package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/quicklinks/internal/model"
)

func seeded(t *testing.T, blocks []model.Block, active string) (*Store, *Memory) {
	t.Helper()
	ctx := context.Background()
	mem := NewMemory()
	raw, err := model.EncodeBlocks(blocks)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, BlocksKey, string(raw)))
	if active != "" {
		require.NoError(t, mem.Set(ctx, ActiveBlockKey, active))
	}
	s := New(mem)
	require.NoError(t, s.Initialize(ctx))
	return s, mem
}

func persisted(t *testing.T, mem *Memory) []model.Block {
	t.Helper()
	raw, ok, err := mem.Get(context.Background(), BlocksKey)
	require.NoError(t, err)
	require.True(t, ok)
	blocks, err := model.DecodeBlocks([]byte(raw))
	require.NoError(t, err)
	return blocks
}

func TestInitializeSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(mem)
	require.NoError(t, s.Initialize(ctx))

	blocks := s.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, []string{"Personal", "Professional", "Documents"},
		[]string{blocks[0].Name, blocks[1].Name, blocks[2].Name})
	assert.Equal(t, "personal", s.ActiveBlockID())

	assert.Equal(t, blocks, persisted(t, mem))
	active, ok, _ := mem.Get(ctx, ActiveBlockKey)
	assert.True(t, ok)
	assert.Equal(t, "personal", active)
}

func TestInitializeLoadsVerbatimAndTrustsActive(t *testing.T) {
	blocks := []model.Block{
		{ID: "b1", Name: "One", Icon: model.IconFolder, Items: []model.Item{}},
		{ID: "b2", Name: "Two", Icon: model.Icon("weird"), Items: []model.Item{}},
	}
	s, _ := seeded(t, blocks, "ghost")

	assert.Equal(t, blocks, s.Blocks())
	assert.Equal(t, "ghost", s.ActiveBlockID(), "persisted selection is not re-validated")
}

func TestInitializeEmptyCollection(t *testing.T) {
	s, _ := seeded(t, []model.Block{}, "")
	assert.Empty(t, s.Blocks())
	assert.Equal(t, "", s.ActiveBlockID())
}

func TestInitializeReadFailureSeeds(t *testing.T) {
	mem := NewMemory()
	mem.FailGet = errors.New("disk gone")
	s := New(mem)
	require.NoError(t, s.Initialize(context.Background()))
	assert.Len(t, s.Blocks(), 3)
}

func TestInitializeCorruptCollectionIsBackedUp(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, BlocksKey, "{broken"))

	s := New(mem)
	require.NoError(t, s.Initialize(ctx))
	assert.Len(t, s.Blocks(), 3)

	backup, ok, _ := mem.Get(ctx, CorruptBlocksKey)
	assert.True(t, ok)
	assert.Equal(t, "{broken", backup)
}

func TestInitializeSeedWriteFailure(t *testing.T) {
	mem := NewMemory()
	mem.FailSet = errors.New("read-only")
	err := New(mem).Initialize(context.Background())
	assert.Error(t, err)
}

func TestCreateBlock(t *testing.T) {
	ctx := context.Background()
	s, mem := seeded(t, []model.Block{{ID: "b1", Name: "Personal", Items: []model.Item{}}}, "b1")

	res, err := s.CreateBlock(ctx, "Travel", model.IconLink)
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())
	require.NotEmpty(t, res.ID)

	blocks := s.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, res.ID, blocks[1].ID)
	assert.Equal(t, "Travel", blocks[1].Name)
	assert.Empty(t, blocks[1].Items)
	assert.Equal(t, res.ID, s.ActiveBlockID())
	assert.Len(t, persisted(t, mem), 2)

	active, _, _ := mem.Get(ctx, ActiveBlockKey)
	assert.Equal(t, res.ID, active)
}

func TestCreateBlockRejectsBlankName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		t.Run(name, func(t *testing.T) {
			s, _ := seeded(t, []model.Block{{ID: "b1", Name: "Personal", Items: []model.Item{}}}, "b1")
			res, err := s.CreateBlock(context.Background(), name, model.IconFolder)
			require.NoError(t, err)
			assert.Equal(t, RejectedEmptyName, res.Outcome)
			assert.Len(t, s.Blocks(), 1)
			assert.Equal(t, "b1", s.ActiveBlockID())
		})
	}
}

func TestCreateBlockAcceptsUnknownIcon(t *testing.T) {
	s, _ := seeded(t, []model.Block{}, "")
	res, err := s.CreateBlock(context.Background(), "X", model.Icon("rocket"))
	require.NoError(t, err)
	b, ok := s.Block(res.ID)
	require.True(t, ok)
	assert.Equal(t, model.Icon("rocket"), b.Icon)
}

func TestDeleteBlock(t *testing.T) {
	three := func() []model.Block {
		return []model.Block{
			{ID: "b1", Name: "One", Items: []model.Item{}},
			{ID: "b2", Name: "Two", Items: []model.Item{model.Info{ID: "i", Label: "l", Value: "v", Tags: []string{}}}},
			{ID: "b3", Name: "Three", Items: []model.Item{}},
		}
	}

	t.Run("active falls back to first remaining", func(t *testing.T) {
		s, mem := seeded(t, three(), "b2")
		res, err := s.DeleteBlock(context.Background(), "b2")
		require.NoError(t, err)
		assert.True(t, res.Outcome.OK())
		assert.Equal(t, "b1", s.ActiveBlockID())
		assert.Len(t, persisted(t, mem), 2)
		_, _, found := s.FindItem("i")
		assert.False(t, found, "items are deleted with their block")
	})

	t.Run("deleting first active block selects next", func(t *testing.T) {
		s, _ := seeded(t, three(), "b1")
		_, err := s.DeleteBlock(context.Background(), "b1")
		require.NoError(t, err)
		assert.Equal(t, "b2", s.ActiveBlockID())
	})

	t.Run("inactive block keeps selection", func(t *testing.T) {
		s, _ := seeded(t, three(), "b3")
		_, err := s.DeleteBlock(context.Background(), "b1")
		require.NoError(t, err)
		assert.Equal(t, "b3", s.ActiveBlockID())
	})

	t.Run("last block leaves no selection", func(t *testing.T) {
		ctx := context.Background()
		s, mem := seeded(t, []model.Block{{ID: "only", Name: "Only", Items: []model.Item{}}}, "only")
		_, err := s.DeleteBlock(ctx, "only")
		require.NoError(t, err)
		assert.Empty(t, s.Blocks())
		assert.Equal(t, "", s.ActiveBlockID())

		active, _, _ := mem.Get(ctx, ActiveBlockKey)
		assert.Equal(t, "", active)

		again := New(mem)
		require.NoError(t, again.Initialize(ctx))
		assert.Empty(t, again.Blocks())
		assert.Equal(t, "", again.ActiveBlockID())
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		s, _ := seeded(t, three(), "b1")
		res, err := s.DeleteBlock(context.Background(), "nope")
		require.NoError(t, err)
		assert.Equal(t, NotFound, res.Outcome)
		assert.Len(t, s.Blocks(), 3)
	})
}

func TestDeleteBlockScenario(t *testing.T) {
	s, _ := seeded(t, []model.Block{
		{ID: "b1", Name: "One", Items: []model.Item{}},
		{ID: "b2", Name: "Two", Items: []model.Item{}},
	}, "b2")
	_, err := s.DeleteBlock(context.Background(), "b2")
	require.NoError(t, err)
	assert.Equal(t, "b1", s.ActiveBlockID())
}

func TestAddInfoScenario(t *testing.T) {
	s, _ := seeded(t, []model.Block{{ID: "b1", Name: "Personal", Items: []model.Item{}}}, "b1")
	res, err := s.AddInfo(context.Background(), "Email", "a@b.com", []string{})
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())

	b, ok := s.ActiveBlock()
	require.True(t, ok)
	require.Len(t, b.Items, 1)
	info, ok := b.Items[0].(model.Info)
	require.True(t, ok)
	assert.Equal(t, "Email", info.Label)
	assert.Equal(t, "a@b.com", info.Value)
	assert.Equal(t, []string{}, info.Tags)
	assert.Equal(t, res.ID, info.ID)
}

func TestAddLinkAppendsLast(t *testing.T) {
	ctx := context.Background()
	s, mem := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{
		model.Info{ID: "x", Label: "l", Value: "v", Tags: []string{}},
	}}}, "b1")

	tags := []string{"dev", "tools"}
	res, err := s.AddLink(ctx, "Git", "https://git.example", tags, "")
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())
	tags[0] = "mutated after commit"

	b, _ := s.ActiveBlock()
	require.Len(t, b.Items, 2)
	link := b.Items[1].(model.Link)
	assert.Equal(t, "Git", link.Title)
	assert.Equal(t, []string{"dev", "tools"}, link.Tags)
	assert.Equal(t, b.Items, persisted(t, mem)[0].Items)
}

func TestAddRejections(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		add  func(s *Store) (Result, error)
		want Outcome
	}{
		{"link no title", func(s *Store) (Result, error) { return s.AddLink(ctx, "", "u", nil, "") }, RejectedMissingField},
		{"link no url", func(s *Store) (Result, error) { return s.AddLink(ctx, "t", "", nil, "d") }, RejectedMissingField},
		{"info no label", func(s *Store) (Result, error) { return s.AddInfo(ctx, "", "v", nil) }, RejectedMissingField},
		{"info no value", func(s *Store) (Result, error) { return s.AddInfo(ctx, "l", "", nil) }, RejectedMissingField},
		{"file no name", func(s *Store) (Result, error) { return s.AddFile(ctx, "", "text/plain", "data:,x", nil, "") }, RejectedMissingField},
		{"file no data", func(s *Store) (Result, error) { return s.AddFile(ctx, "a.txt", "text/plain", "", nil, "") }, RejectedMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{}}}, "b1")
			res, err := tt.add(s)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			b, _ := s.ActiveBlock()
			assert.Empty(t, b.Items)
			assert.Empty(t, persisted(t, mem)[0].Items)
		})
	}
}

func TestAddWithoutActiveBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		s, _ := seeded(t, []model.Block{}, "")
		res, err := s.AddLink(ctx, "t", "u", nil, "")
		require.NoError(t, err)
		assert.Equal(t, RejectedNoActiveBlock, res.Outcome)
	})

	t.Run("dangling selection", func(t *testing.T) {
		s, _ := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{}}}, "gone")
		res, err := s.AddInfo(ctx, "l", "v", nil)
		require.NoError(t, err)
		assert.Equal(t, RejectedNoActiveBlock, res.Outcome)
		b, _ := s.Block("b1")
		assert.Empty(t, b.Items)
	})
}

func TestAddFile(t *testing.T) {
	ctx := context.Background()
	s, _ := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{}}}, "b1")

	res, err := s.AddFile(ctx, "note.bin", "", "data:application/octet-stream;base64,AAEC", []string{"raw"}, "bytes")
	require.NoError(t, err)
	require.True(t, res.Outcome.OK())

	it, blockID, ok := s.FindItem(res.ID)
	require.True(t, ok)
	assert.Equal(t, "b1", blockID)
	f := it.(model.File)
	assert.Equal(t, "", f.FileType)
	assert.Equal(t, "bytes", f.Description)
}

func TestAddFileSizeCap(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(mem, WithMaxFileBytes(3))
	require.NoError(t, s.Initialize(ctx))

	res, err := s.AddFile(ctx, "ok", "x/y", "data:x/y;base64,AAEC", nil, "")
	require.NoError(t, err)
	assert.Equal(t, Applied, res.Outcome)

	res, err = s.AddFile(ctx, "big", "x/y", "data:x/y;base64,AAECAw==", nil, "")
	require.NoError(t, err)
	assert.Equal(t, RejectedTooLarge, res.Outcome)
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	s, mem := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{
		model.Info{ID: "a", Label: "l", Value: "v", Tags: []string{}},
		model.Info{ID: "b", Label: "l", Value: "v", Tags: []string{}},
	}}}, "b1")

	res, err := s.DeleteItem(ctx, "b1", "a")
	require.NoError(t, err)
	assert.True(t, res.Outcome.OK())
	items := persisted(t, mem)[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ItemID())

	res, err = s.DeleteItem(ctx, "b1", "a")
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)

	res, err = s.DeleteItem(ctx, "nope", "b")
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Outcome)
}

func TestSetActiveBlockIsUnchecked(t *testing.T) {
	ctx := context.Background()
	s, mem := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{}}}, "b1")
	res, err := s.SetActiveBlock(ctx, "anything")
	require.NoError(t, err)
	assert.True(t, res.Outcome.OK())
	assert.Equal(t, "anything", s.ActiveBlockID())
	v, _, _ := mem.Get(ctx, ActiveBlockKey)
	assert.Equal(t, "anything", v)
}

func TestWriteFailureIsReturned(t *testing.T) {
	s, mem := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{}}}, "b1")
	mem.FailSet = errors.New("quota exceeded")

	res, err := s.AddInfo(context.Background(), "l", "v", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, mem.FailSet)
	assert.Equal(t, Applied, res.Outcome)
}

func TestReadsAreCopies(t *testing.T) {
	s, _ := seeded(t, []model.Block{{ID: "b1", Name: "P", Items: []model.Item{
		model.Link{ID: "a", Title: "t", URL: "u", Tags: []string{"x"}},
	}}}, "b1")

	blocks := s.Blocks()
	blocks[0].Name = "changed"
	blocks[0].Items[0].(model.Link).Tags[0] = "changed"

	again := s.Blocks()
	assert.Equal(t, "P", again[0].Name)
	assert.Equal(t, "x", again[0].Items[0].(model.Link).Tags[0])
}

func TestItemsScopes(t *testing.T) {
	s, _ := seeded(t, []model.Block{
		{ID: "b1", Name: "One", Items: []model.Item{
			model.Link{ID: "1", Title: "Git", URL: "u", Tags: []string{"dev"}},
			model.Link{ID: "2", Title: "Mail", URL: "u", Tags: []string{"personal"}},
		}},
		{ID: "b2", Name: "Two", Items: []model.Item{
			model.Info{ID: "3", Label: "Dev box", Value: "10.0.0.1", Tags: []string{}},
		}},
	}, "b1")

	assert.Len(t, s.Items(ScopeActive, ""), 2)
	assert.Len(t, s.Items(ScopeActive, "dev"), 1)
	assert.Len(t, s.Items(ScopeAll, ""), 3)

	all := s.Items(ScopeAll, "DEV")
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ItemID())
	assert.Equal(t, "3", all[1].ItemID())
}

func TestSurfacesAreIndependentUntilReload(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	popup := New(mem)
	require.NoError(t, popup.Initialize(ctx))
	sidebar := New(mem)
	require.NoError(t, sidebar.Initialize(ctx))

	_, err := popup.AddInfo(ctx, "Email", "a@b.com", nil)
	require.NoError(t, err)
	assert.Empty(t, sidebar.Items(ScopeActive, ""), "sidebar copy is stale")

	require.NoError(t, sidebar.Reload(ctx))
	assert.Len(t, sidebar.Items(ScopeActive, ""), 1)
}

func TestLastWriterWins(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	a := New(mem)
	require.NoError(t, a.Initialize(ctx))
	b := New(mem)
	require.NoError(t, b.Initialize(ctx))

	_, err := a.AddInfo(ctx, "from", "a", nil)
	require.NoError(t, err)
	_, err = b.AddInfo(ctx, "from", "b", nil)
	require.NoError(t, err)

	items := persisted(t, mem)[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].(model.Info).Value)
}

func TestFollowReloadsOnExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mem := NewMemory()
	popup := New(mem)
	require.NoError(t, popup.Initialize(ctx))
	sidebar := New(mem)
	require.NoError(t, sidebar.Initialize(ctx))

	events, unsubscribe := sidebar.Subscribe()
	defer unsubscribe()

	following, err := sidebar.Follow(ctx)
	require.NoError(t, err)
	require.True(t, following)

	_, err = popup.AddInfo(ctx, "Email", "a@b.com", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sidebar.Items(ScopeActive, "")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case e := <-events:
		assert.Equal(t, EventReloaded, e.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no reload event")
	}
}

func TestFollowUnwatchable(t *testing.T) {
	s := New(plainAdapter{NewMemory()})
	following, err := s.Follow(context.Background())
	require.NoError(t, err)
	assert.False(t, following)
}

// plainAdapter hides Memory's Watch method.
type plainAdapter struct{ m *Memory }

func (p plainAdapter) Get(ctx context.Context, k string) (string, bool, error) { return p.m.Get(ctx, k) }
func (p plainAdapter) Set(ctx context.Context, k, v string) error               { return p.m.Set(ctx, k, v) }

func TestSubscribeReceivesMutations(t *testing.T) {
	s, _ := seeded(t, []model.Block{}, "")
	events, unsubscribe := s.Subscribe()

	res, err := s.CreateBlock(context.Background(), "New", model.IconFolder)
	require.NoError(t, err)

	e := <-events
	assert.Equal(t, EventMutated, e.Kind)
	assert.Equal(t, "create block", e.Op)
	assert.Equal(t, res.ID, e.ID)

	unsubscribe()
	unsubscribe()
	_, open := <-events
	assert.False(t, open)
}

func TestDataURLSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"data:text/plain;base64,AAEC", 3},
		{"data:text/plain;base64,AAECAw==", 4},
		{"data:text/plain;base64,AAECAwQ=", 5},
		{"data:,hello", 5},
		{"plain", 5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DataURLSize(tt.in))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "no active block", RejectedNoActiveBlock.String())
	assert.False(t, NotFound.OK())
}

func TestReloadReadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(mem)
	require.NoError(t, s.Initialize(ctx))
	res, err := s.CreateBlock(ctx, "Work", model.IconFolder)
	require.NoError(t, err)
	_, err = s.AddInfo(ctx, "Email", "a@b.com", nil)
	require.NoError(t, err)

	mem.FailGet = errors.New("database is locked")
	assert.Error(t, s.Reload(ctx))
	mem.FailGet = nil

	assert.Len(t, s.Blocks(), 4, "in-memory state is kept")
	assert.Equal(t, res.ID, s.ActiveBlockID())

	fresh := New(mem)
	require.NoError(t, fresh.Initialize(ctx))
	blocks := fresh.Blocks()
	require.Len(t, blocks, 4, "persisted collection was not reseeded")
	assert.Equal(t, "Work", blocks[3].Name)
	assert.Len(t, blocks[3].Items, 1)
}

func TestReloadCorruptValueKeepsState(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	s := New(mem)
	require.NoError(t, s.Initialize(ctx))
	_, err := s.CreateBlock(ctx, "Work", model.IconFolder)
	require.NoError(t, err)

	require.NoError(t, mem.Set(ctx, BlocksKey, "{broken"))
	assert.Error(t, s.Reload(ctx))
	assert.Len(t, s.Blocks(), 4)

	raw, _, err := mem.Get(ctx, BlocksKey)
	require.NoError(t, err)
	assert.Equal(t, "{broken", raw, "reload never writes defaults")
}
