package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeseh/cortex/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, CreateParams{
		Path:      "project/alpha",
		Content:   "remember the blue deploy",
		Tags:      []string{"deploy"},
		Source:    "session-1",
		Citations: []string{"docs/deploy.md"},
		Now:       testNow,
	})
	require.NoError(t, err)
	assert.True(t, created.Metadata.CreatedAt.Equal(testNow))
	assert.True(t, created.Metadata.UpdatedAt.Equal(testNow))

	got, err := s.Get(ctx, GetParams{Path: "project/alpha"})
	require.NoError(t, err)
	assert.Equal(t, "remember the blue deploy", got.Content)
	assert.Equal(t, []string{"deploy"}, got.Metadata.Tags)
	assert.Equal(t, "session-1", got.Metadata.Source)
	assert.Equal(t, []string{"docs/deploy.md"}, got.Metadata.Citations)
}

func TestCreateInvalidPath(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(context.Background(), CreateParams{Path: "alpha", Content: "x"})
	assert.Equal(t, model.ErrInvalidPath, model.CodeOf(err))

	_, err = s.Create(context.Background(), CreateParams{Path: "project/index", Content: "x"})
	assert.Equal(t, model.ErrInvalidSlug, model.CodeOf(err))
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), GetParams{Path: "project/missing"})
	assert.Equal(t, model.ErrMemoryNotFound, model.CodeOf(err))
}

func TestGetExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	expires := testNow.Add(time.Hour)

	_, err := s.Create(ctx, CreateParams{
		Path: "project/fleeting", Content: "soon gone", ExpiresAt: &expires, Now: testNow,
	})
	require.NoError(t, err)

	// Still live just before the deadline.
	_, err = s.Get(ctx, GetParams{Path: "project/fleeting", Now: expires.Add(-time.Second)})
	require.NoError(t, err)

	// expiresAt <= now counts as expired.
	_, err = s.Get(ctx, GetParams{Path: "project/fleeting", Now: expires})
	assert.Equal(t, model.ErrMemoryExpired, model.CodeOf(err))

	got, err := s.Get(ctx, GetParams{Path: "project/fleeting", Now: expires, IncludeExpired: true})
	require.NoError(t, err)
	assert.Equal(t, "soon gone", got.Content)
}

func TestUpdateRequiresAField(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update(context.Background(), UpdateParams{Path: "project/alpha"})
	assert.Equal(t, model.ErrInvalidInput, model.CodeOf(err))
}

func TestUpdateNotFound(t *testing.T) {
	s := newTestStore(t)
	content := "x"

	_, err := s.Update(context.Background(), UpdateParams{Path: "project/missing", Content: &content})
	assert.Equal(t, model.ErrMemoryNotFound, model.CodeOf(err))
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{
		Path: "project/alpha", Content: "v1", Tags: []string{"a"}, Source: "cli", Now: testNow,
	})
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	content := "v2"
	updated, err := s.Update(ctx, UpdateParams{Path: "project/alpha", Content: &content, Now: later})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	// Untouched fields survive the merge; CreatedAt never changes.
	assert.Equal(t, []string{"a"}, updated.Metadata.Tags)
	assert.True(t, updated.Metadata.CreatedAt.Equal(testNow))
	assert.True(t, updated.Metadata.UpdatedAt.Equal(later))

	tags := []string{"b", "c"}
	updated, err = s.Update(ctx, UpdateParams{Path: "project/alpha", Tags: &tags, Now: later})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
	assert.Equal(t, []string{"b", "c"}, updated.Metadata.Tags)
}

func TestUpdateExpiryTernary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	expires := testNow.Add(24 * time.Hour)

	_, err := s.Create(ctx, CreateParams{
		Path: "project/alpha", Content: "v1", ExpiresAt: &expires, Now: testNow,
	})
	require.NoError(t, err)

	// Omitted expiry preserves the stored value.
	content := "v2"
	updated, err := s.Update(ctx, UpdateParams{Path: "project/alpha", Content: &content})
	require.NoError(t, err)
	require.NotNil(t, updated.Metadata.ExpiresAt)
	assert.True(t, expires.Equal(*updated.Metadata.ExpiresAt))

	// A new value replaces it.
	newExpires := testNow.Add(48 * time.Hour)
	updated, err = s.Update(ctx, UpdateParams{Path: "project/alpha", ExpiresAt: &newExpires})
	require.NoError(t, err)
	require.NotNil(t, updated.Metadata.ExpiresAt)
	assert.True(t, newExpires.Equal(*updated.Metadata.ExpiresAt))

	// An explicit clear removes it entirely.
	updated, err = s.Update(ctx, UpdateParams{Path: "project/alpha", ClearExpiresAt: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Metadata.ExpiresAt)

	got, err := s.Get(ctx, GetParams{Path: "project/alpha"})
	require.NoError(t, err)
	assert.Nil(t, got.Metadata.ExpiresAt)
}

func TestRemoveIsNotIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "project/alpha", Content: "x", Now: testNow})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "project/alpha"))

	// Removing an absent memory is an error, not a silent success.
	err = s.Remove(ctx, "project/alpha")
	assert.Equal(t, model.ErrMemoryNotFound, model.CodeOf(err))
}

func TestConcurrentCreates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const n = 16

	// Parallel writers into one category: every upsert walks the same
	// parent and root indexes, so a lost update would drop entries.
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, CreateParams{
				Path:    fmt.Sprintf("project/mem-%02d", i),
				Content: fmt.Sprintf("entry %d", i),
				Now:     testNow,
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		require.NoErrorf(t, err, "create %d", i)
	}

	idx, found, err := s.readIndex("project")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, idx.Memories, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("project/mem-%02d", i), idx.Memories[i].Path)
	}

	root, found, err := s.readIndex("")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, root.Subcategories, 1)
	assert.Equal(t, "project", root.Subcategories[0].Path)
	assert.Equal(t, n, root.Subcategories[0].MemoryCount)
}

func TestMoveSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "project/alpha", Content: "payload", Now: testNow})
	require.NoError(t, err)

	// Self-move is a no-op success.
	require.NoError(t, s.Move(ctx, "project/alpha", "project/alpha"))
	_, err = s.Get(ctx, GetParams{Path: "project/alpha"})
	require.NoError(t, err)

	// Missing source.
	err = s.Move(ctx, "project/ghost", "archive/ghost")
	assert.Equal(t, model.ErrMemoryNotFound, model.CodeOf(err))

	// Existing destination: both files stay untouched.
	_, err = s.Create(ctx, CreateParams{Path: "archive/alpha", Content: "other", Now: testNow})
	require.NoError(t, err)
	err = s.Move(ctx, "project/alpha", "archive/alpha")
	assert.Equal(t, model.ErrDestinationExists, model.CodeOf(err))
	got, err := s.Get(ctx, GetParams{Path: "project/alpha"})
	require.NoError(t, err)
	assert.Equal(t, "payload", got.Content)
	got, err = s.Get(ctx, GetParams{Path: "archive/alpha"})
	require.NoError(t, err)
	assert.Equal(t, "other", got.Content)

	// Successful move into a brand-new category.
	require.NoError(t, s.Move(ctx, "project/alpha", "graveyard/alpha"))
	_, err = s.Get(ctx, GetParams{Path: "project/alpha"})
	assert.Equal(t, model.ErrMemoryNotFound, model.CodeOf(err))
	got, err = s.Get(ctx, GetParams{Path: "graveyard/alpha"})
	require.NoError(t, err)
	assert.Equal(t, "payload", got.Content)

	// Indexes reflect the move.
	idx, found, err := s.readIndex("graveyard")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, idx.Memories, 1)
	assert.Equal(t, "graveyard/alpha", idx.Memories[0].Path)

	idx, found, err = s.readIndex("project")
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, idx.Memories)
}
