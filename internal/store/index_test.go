package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeseh/cortex/internal/model"
)

func TestWriteUpsertsParentIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "project/alpha", Content: "hello", Now: testNow})
	require.NoError(t, err)

	idx, found, err := s.readIndex("project")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, idx.Memories, 1)
	assert.Equal(t, "project/alpha", idx.Memories[0].Path)
	assert.Greater(t, idx.Memories[0].Tokens, 0)

	// The top-level category registers in the root index.
	root, found, err := s.readIndex("")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, root.Subcategories, 1)
	assert.Equal(t, "project", root.Subcategories[0].Path)
	assert.Equal(t, 1, root.Subcategories[0].MemoryCount)
}

func TestWriteBootstrapsAncestorChain(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "a/b/c/leaf", Content: "deep", Now: testNow})
	require.NoError(t, err)

	// Every intermediate category has an index, and every parent knows
	// its direct child.
	cases := []struct {
		parent string
		child  string
		count  int
	}{
		{parent: "", child: "a", count: 0},
		{parent: "a", child: "a/b", count: 0},
		{parent: "a/b", child: "a/b/c", count: 1},
	}
	for _, tc := range cases {
		idx, found, err := s.readIndex(tc.parent)
		require.NoError(t, err)
		require.True(t, found, "index %q", tc.parent)
		require.Len(t, idx.Subcategories, 1, "index %q", tc.parent)
		assert.Equal(t, tc.child, idx.Subcategories[0].Path)
		assert.Equal(t, tc.count, idx.Subcategories[0].MemoryCount)
	}

	leaf, found, err := s.readIndex("a/b/c")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, leaf.Memories, 1)
	assert.Equal(t, "a/b/c/leaf", leaf.Memories[0].Path)
}

func TestUpsertReplacesByPathAndSorts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"project/zeta", "project/alpha", "project/mid"} {
		_, err := s.Create(ctx, CreateParams{Path: path, Content: "v1", Now: testNow})
		require.NoError(t, err)
	}
	// Rewriting one memory must replace, not duplicate.
	_, err := s.Create(ctx, CreateParams{Path: "project/mid", Content: "v2 longer content", Now: testNow})
	require.NoError(t, err)

	idx, _, err := s.readIndex("project")
	require.NoError(t, err)
	require.Len(t, idx.Memories, 3)
	assert.Equal(t, "project/alpha", idx.Memories[0].Path)
	assert.Equal(t, "project/mid", idx.Memories[1].Path)
	assert.Equal(t, "project/zeta", idx.Memories[2].Path)
}

func TestSubcategoryDescriptionPreserved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "project/alpha", Content: "x", Now: testNow})
	require.NoError(t, err)

	// A curated description lives in the root index.
	root, _, err := s.readIndex("")
	require.NoError(t, err)
	root.Subcategories[0].Description = "work projects"
	require.NoError(t, s.writeIndex("", root))

	// Further writes into the category must not clobber it.
	_, err = s.Create(ctx, CreateParams{Path: "project/beta", Content: "y", Now: testNow})
	require.NoError(t, err)

	root, _, err = s.readIndex("")
	require.NoError(t, err)
	require.Len(t, root.Subcategories, 1)
	assert.Equal(t, "work projects", root.Subcategories[0].Description)
	assert.Equal(t, 2, root.Subcategories[0].MemoryCount)
}

func TestSkipIndexUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WriteMemoryFile(ctx, mustPath(t, "project/alpha"), "raw", WriteOptions{SkipIndexUpdate: true})
	require.NoError(t, err)

	_, found, err := s.readIndex("project")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIndexSummaryFromBody(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{
		Path:    "project/alpha",
		Content: "# Heading\n\nThe summary line everyone should see.\nMore detail below.",
		Now:     testNow,
	})
	require.NoError(t, err)

	idx, _, err := s.readIndex("project")
	require.NoError(t, err)
	require.Len(t, idx.Memories, 1)
	assert.Equal(t, "The summary line everyone should see.", idx.Memories[0].Summary)
}

func TestDecodeIndexToleratesEmptyLists(t *testing.T) {
	idx, err := decodeIndex([]byte("memories:\nsubcategories:\n"))
	require.NoError(t, err)
	assert.NotNil(t, idx.Memories)
	assert.NotNil(t, idx.Subcategories)
	assert.Empty(t, idx.Memories)
}

func TestCorruptIndexSurfacesParseError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateParams{Path: "project/alpha", Content: "x", Now: testNow})
	require.NoError(t, err)

	path, err := s.indexFilePath("project")
	require.NoError(t, err)
	require.NoError(t, writeRaw(path, "\t: not yaml"))

	_, _, err = s.readIndex("project")
	assert.Equal(t, model.ErrIndexParseFailed, model.CodeOf(err))
}
