package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yeseh/cortex/internal/model"
)

func TestRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	expires := created.AddDate(0, 1, 0)
	mem := &model.Memory{
		Metadata: model.Metadata{
			CreatedAt: created,
			UpdatedAt: created,
			Tags:      []string{"deploy", "infra"},
			Source:    "session-42",
			ExpiresAt: &expires,
			Citations: []string{"src/main.go:12"},
		},
		Content: "# Deploy notes\n\nUse the blue environment first.\n",
	}

	var s Serializer
	raw, err := s.Serialize(mem)
	require.NoError(t, err)

	got, err := s.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, mem.Content, got.Content)
	assert.Equal(t, mem.Metadata.Tags, got.Metadata.Tags)
	assert.Equal(t, mem.Metadata.Source, got.Metadata.Source)
	assert.Equal(t, mem.Metadata.Citations, got.Metadata.Citations)
	assert.True(t, mem.Metadata.CreatedAt.Equal(got.Metadata.CreatedAt))
	require.NotNil(t, got.Metadata.ExpiresAt)
	assert.True(t, expires.Equal(*got.Metadata.ExpiresAt))
}

func TestRoundTripNoExpiry(t *testing.T) {
	mem := &model.Memory{
		Metadata: model.Metadata{
			CreatedAt: time.Now().UTC().Truncate(time.Second),
			UpdatedAt: time.Now().UTC().Truncate(time.Second),
			Source:    "cli",
		},
		Content: "plain body",
	}

	var s Serializer
	raw, err := s.Serialize(mem)
	require.NoError(t, err)
	assert.NotContains(t, raw, "expiresAt")

	got, err := s.Parse(raw)
	require.NoError(t, err)
	assert.Nil(t, got.Metadata.ExpiresAt)
	assert.Equal(t, "plain body", got.Content)
}

func TestParseErrors(t *testing.T) {
	var s Serializer

	_, err := s.Parse("no front matter here")
	assert.Equal(t, model.ErrMemoryParseFailed, model.CodeOf(err))

	_, err = s.Parse("---\nsource: x\nnever closed")
	assert.Equal(t, model.ErrMemoryParseFailed, model.CodeOf(err))

	_, err = s.Parse("---\n\t:bad yaml\n---\n\nbody")
	assert.Equal(t, model.ErrMemoryParseFailed, model.CodeOf(err))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "First real line.",
		Summarize("# Title\n\nFirst real line.\nSecond line.", 80))
	assert.Equal(t, "", Summarize("# Only a heading\n", 80))
	assert.Equal(t, "abcde...", Summarize("abcdefghijkl", 8))
}

func TestSummarizeTinyMaxLen(t *testing.T) {
	// Truncation lengths too small for an ellipsis just hard-cut.
	assert.Equal(t, "abc", Summarize("abcdefghijkl", 3))
	assert.Equal(t, "a", Summarize("abcdefghijkl", 1))
}
