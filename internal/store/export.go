package store

import (
	"context"

	"github.com/Yeseh/cortex/internal/model"
)

// ExportedMemory pairs a memory with its identity for backups.
type ExportedMemory struct {
	Path   string       `json:"path"`
	Memory model.Memory `json:"memory"`
}

// Export returns every memory under the given category (or the whole
// store when category is empty), expired ones included, sorted by path.
func (s *Store) Export(ctx context.Context, category string) ([]ExportedMemory, error) {
	listing, err := s.List(ctx, ListParams{Category: category, IncludeExpired: true})
	if err != nil {
		return nil, err
	}
	out := make([]ExportedMemory, 0, len(listing.Memories))
	for _, m := range listing.Memories {
		out = append(out, ExportedMemory{Path: m.Path, Memory: *m.Memory})
	}
	return out, nil
}
