package store

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextPacksNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := testNow.AddDate(0, 0, -30)
	_, err := s.Create(ctx, CreateParams{Path: "notes/stale", Content: strings.Repeat("old ", 60), Now: old})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateParams{Path: "notes/fresh", Content: strings.Repeat("new ", 60), Now: testNow})
	require.NoError(t, err)

	// Both memories estimate to 60 tokens under the heuristic; a
	// budget of 90 fits the fresh one whole and excerpts the stale one.
	result, err := s.Context(ctx, ContextParams{Budget: 90, Now: testNow})
	require.NoError(t, err)
	require.Len(t, result.Memories, 2)
	assert.Equal(t, "notes/fresh", result.Memories[0].Path)
	assert.False(t, result.Memories[0].Excerpt)
	assert.Equal(t, "notes/stale", result.Memories[1].Path)
	assert.True(t, result.Memories[1].Excerpt)
	assert.Equal(t, 90, result.Used)
	assert.LessOrEqual(t, result.Used, result.Budget)
}

func TestContextExcerptKeepsValidUTF8(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 1 + 200*3 = 601 bytes, 150 heuristic tokens; the budget forces an
	// excerpt whose byte cut (30*4 = 120) lands mid-rune.
	content := "x" + strings.Repeat("日", 200)
	_, err := s.Create(ctx, CreateParams{Path: "notes/wide", Content: content, Now: testNow})
	require.NoError(t, err)

	result, err := s.Context(ctx, ContextParams{Budget: 30, Now: testNow})
	require.NoError(t, err)
	require.Len(t, result.Memories, 1)
	require.True(t, result.Memories[0].Excerpt)
	got := result.Memories[0].Content
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.True(t, strings.HasPrefix(content, strings.TrimSuffix(got, "...")))
}

func TestContextSkipsExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expires := testNow.Add(-time.Hour)
	_, err := s.Create(ctx, CreateParams{Path: "notes/gone", Content: "expired", ExpiresAt: &expires, Now: testNow.Add(-2 * time.Hour)})
	require.NoError(t, err)
	_, err = s.Create(ctx, CreateParams{Path: "notes/live", Content: "still here", Now: testNow})
	require.NoError(t, err)

	result, err := s.Context(ctx, ContextParams{Now: testNow})
	require.NoError(t, err)
	require.Len(t, result.Memories, 1)
	assert.Equal(t, "notes/live", result.Memories[0].Path)
}

func TestContextEmptyStore(t *testing.T) {
	s := newTestStore(t)

	result, err := s.Context(context.Background(), ContextParams{})
	require.NoError(t, err)
	assert.Equal(t, defaultContextBudget, result.Budget)
	assert.Zero(t, result.Used)
	assert.Empty(t, result.Memories)
}
