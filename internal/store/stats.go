package store

import (
	"context"
	"sort"

	"github.com/Yeseh/cortex/internal/slug"
)

// CategoryStats holds per-category direct counts from the index tree.
type CategoryStats struct {
	Path     string `json:"path"`
	Memories int    `json:"memories"`
	Tokens   int    `json:"tokens"`
}

// Stats holds store-wide statistics computed from the index tree alone,
// without reading memory files.
type Stats struct {
	Root          string          `json:"root"`
	TotalMemories int             `json:"total_memories"`
	TotalTokens   int             `json:"total_tokens"`
	Categories    []CategoryStats `json:"categories"`
}

// Stats walks the index tree and aggregates memory and token counts per
// category.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Root: s.root, Categories: []CategoryStats{}}

	visited := map[string]bool{}
	var walk func(cat slug.Path) error
	walk = func(cat slug.Path) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := cat.String()
		if visited[key] {
			return nil
		}
		visited[key] = true

		idx, found, err := s.readIndex(key)
		if err != nil || !found {
			return err
		}
		if key != "" {
			cs := CategoryStats{Path: key, Memories: len(idx.Memories)}
			for _, m := range idx.Memories {
				cs.Tokens += m.Tokens
			}
			st.TotalMemories += cs.Memories
			st.TotalTokens += cs.Tokens
			st.Categories = append(st.Categories, cs)
		} else {
			for _, m := range idx.Memories {
				st.TotalMemories++
				st.TotalTokens += m.Tokens
			}
		}
		for _, sub := range idx.Subcategories {
			subPath, err := slug.ParseCategory(sub.Path)
			if err != nil {
				continue
			}
			if err := walk(subPath); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(nil); err != nil {
		return nil, err
	}

	sort.Slice(st.Categories, func(i, j int) bool {
		return st.Categories[i].Path < st.Categories[j].Path
	})
	return st, nil
}
