package store

import (
	"context"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/slug"
)

// ListedMemory is one memory returned by List: its identity, the index
// entry's size estimate and summary, and the parsed memory itself.
type ListedMemory struct {
	Path    string        `json:"path"`
	Tokens  int           `json:"tokens"`
	Summary string        `json:"summary,omitempty"`
	Memory  *model.Memory `json:"memory"`
}

// ListResult holds the memories collected from a category subtree plus
// the direct (non-recursive) subcategories of the listed node.
type ListResult struct {
	Memories      []ListedMemory           `json:"memories"`
	Subcategories []model.SubcategoryEntry `json:"subcategories"`
}

// ListParams holds parameters for listing memories.
type ListParams struct {
	// Category scopes the listing to one subtree; empty lists the whole
	// store, discovering top-level categories from the root index.
	Category       string
	IncludeExpired bool
	// Pattern optionally filters memory paths with a glob, e.g.
	// "project/*/decisions".
	Pattern string
	Now     time.Time
}

// List collects memories recursively from the given category (or from
// every top-level category registered in the root index), applying the
// expiration filter.
func (s *Store) List(ctx context.Context, p ListParams) (*ListResult, error) {
	var matcher glob.Glob
	if p.Pattern != "" {
		g, err := glob.Compile(p.Pattern, '/')
		if err != nil {
			return nil, model.WrapError(model.ErrInvalidInput, "invalid list pattern", err)
		}
		matcher = g
	}

	var start slug.Path
	if p.Category != "" {
		cat, err := slug.ParseCategory(p.Category)
		if err != nil {
			return nil, err
		}
		start = cat
	}

	idx, _, err := s.readIndexOrNew(start.String())
	if err != nil {
		return nil, err
	}
	result := &ListResult{
		Memories:      []ListedMemory{},
		Subcategories: idx.Subcategories,
	}

	now := orNow(p.Now)
	visited := map[string]bool{}
	if err := s.collect(ctx, start, p.IncludeExpired, now, visited, result); err != nil {
		return nil, err
	}

	if matcher != nil {
		filtered := result.Memories[:0]
		for _, m := range result.Memories {
			if matcher.Match(m.Path) {
				filtered = append(filtered, m)
			}
		}
		result.Memories = filtered
	}
	sort.Slice(result.Memories, func(i, j int) bool {
		return result.Memories[i].Path < result.Memories[j].Path
	})
	return result, nil
}

// collect gathers memories from cat and its subcategories depth-first.
// The visited set returns an empty result for any category already
// seen: the index tree is logically acyclic, but corrupted or symlinked
// on-disk state must not loop the walk.
func (s *Store) collect(ctx context.Context, cat slug.Path, includeExpired bool, now time.Time, visited map[string]bool, out *ListResult) error {
	if err := ctx.Err(); err != nil {
		return model.WrapError(model.ErrReadFailed, "list cancelled", err)
	}
	key := cat.String()
	if visited[key] {
		return nil
	}
	visited[key] = true

	idx, found, err := s.readIndex(key)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	for _, entry := range idx.Memories {
		p, err := slug.ParseMemory(entry.Path)
		if err != nil {
			s.log.Warn("store: index references invalid memory path, skipping",
				"category", key, "path", entry.Path)
			continue
		}
		raw, ok, err := s.ReadMemoryFile(p)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Warn("store: index references missing memory file, skipping",
				"path", entry.Path)
			continue
		}
		mem, err := s.ser.Parse(raw)
		if err != nil {
			s.log.Warn("store: skipping corrupt memory file", "path", entry.Path, "err", err)
			continue
		}
		if !includeExpired && mem.IsExpired(now) {
			continue
		}
		out.Memories = append(out.Memories, ListedMemory{
			Path:    entry.Path,
			Tokens:  entry.Tokens,
			Summary: entry.Summary,
			Memory:  mem,
		})
	}

	for _, sub := range idx.Subcategories {
		subPath, err := slug.ParseCategory(sub.Path)
		if err != nil {
			s.log.Warn("store: index references invalid subcategory, skipping",
				"category", key, "path", sub.Path)
			continue
		}
		if err := s.collect(ctx, subPath, includeExpired, now, visited, out); err != nil {
			return err
		}
	}
	return nil
}

// PruneParams holds parameters for pruning expired memories.
type PruneParams struct {
	DryRun bool
	Now    time.Time
}

// PruneResult reports which memory paths were (or would be) pruned.
type PruneResult struct {
	Pruned []string `json:"pruned"`
	DryRun bool     `json:"dry_run"`
}

// Prune removes every memory whose expiration has passed. With DryRun
// it only reports what would be removed. A single reindex runs after
// the deletions, and only if anything was actually removed.
func (s *Store) Prune(ctx context.Context, p PruneParams) (*PruneResult, error) {
	now := orNow(p.Now)
	listing, err := s.List(ctx, ListParams{IncludeExpired: true, Now: now})
	if err != nil {
		return nil, err
	}

	result := &PruneResult{Pruned: []string{}, DryRun: p.DryRun}
	for _, m := range listing.Memories {
		if m.Memory.IsExpired(now) {
			result.Pruned = append(result.Pruned, m.Path)
		}
	}
	if p.DryRun || len(result.Pruned) == 0 {
		return result, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range result.Pruned {
		p, err := slug.ParseMemory(path)
		if err != nil {
			continue
		}
		if err := s.RemoveMemoryFile(p); err != nil {
			return nil, err
		}
	}
	if err := s.reindex(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
