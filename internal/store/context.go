package store

import (
	"context"
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

// ContextParams holds parameters for context assembly.
type ContextParams struct {
	Category string
	// Budget is the maximum token budget for the assembled context
	// (default 4000). Budget math uses the token estimates stored in
	// the category indexes.
	Budget int
	Now    time.Time
}

// ContextMemory is one memory packed into an assembled context.
type ContextMemory struct {
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Tokens  int     `json:"tokens"`
	Score   float64 `json:"score"`
	Excerpt bool    `json:"excerpt,omitempty"`
}

// ContextResult is the assembled context response.
type ContextResult struct {
	Budget   int             `json:"budget"`
	Used     int             `json:"used"`
	Memories []ContextMemory `json:"memories"`
}

const defaultContextBudget = 4000

// Context assembles live memories from a category subtree into a token
// budget, freshest first. Recency is scored with an exponential decay
// (half-life on the order of a week) over UpdatedAt, then memories are
// greedily packed by their index token estimates; the last memory may
// be excerpted to fill the remaining budget.
func (s *Store) Context(ctx context.Context, p ContextParams) (*ContextResult, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = defaultContextBudget
	}
	now := orNow(p.Now)

	listing, err := s.List(ctx, ListParams{Category: p.Category, Now: now})
	if err != nil {
		return nil, err
	}

	result := &ContextResult{Budget: budget, Memories: []ContextMemory{}}
	if len(listing.Memories) == 0 {
		return result, nil
	}

	type scored struct {
		mem   ListedMemory
		score float64
	}
	candidates := make([]scored, 0, len(listing.Memories))
	for _, m := range listing.Memories {
		ageDays := now.Sub(m.Memory.Metadata.UpdatedAt).Hours() / 24.0
		if ageDays < 0 {
			ageDays = 0
		}
		candidates = append(candidates, scored{
			mem:   m,
			score: math.Exp(-0.1 * ageDays),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].mem.Path < candidates[j].mem.Path
	})

	used := 0
	for _, c := range candidates {
		cost := c.mem.Tokens
		if cost == 0 {
			cost = 1
		}
		if used+cost <= budget {
			result.Memories = append(result.Memories, ContextMemory{
				Path:    c.mem.Path,
				Content: c.mem.Memory.Content,
				Tokens:  cost,
				Score:   math.Round(c.score*100) / 100,
			})
			used += cost
			continue
		}
		if remaining := budget - used; remaining >= 25 {
			// Partial fit: excerpt down to the remaining budget using
			// the rough 4 chars per token conversion.
			content := c.mem.Memory.Content
			maxChars := remaining * 4
			if len(content) > maxChars {
				// Back up to a rune boundary so the cut never emits
				// invalid UTF-8.
				cut := maxChars
				for cut > 0 && !utf8.RuneStart(content[cut]) {
					cut--
				}
				content = content[:cut] + "..."
			}
			result.Memories = append(result.Memories, ContextMemory{
				Path:    c.mem.Path,
				Content: content,
				Tokens:  remaining,
				Score:   math.Round(c.score*100) / 100,
				Excerpt: true,
			})
			used = budget
		}
		break
	}

	result.Used = used
	return result, nil
}
