package store

import (
	"context"

	"gopkg.in/yaml.v3"

	"github.com/Yeseh/cortex/internal/markdown"
	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/slug"
)

func decodeIndex(b []byte) (*model.CategoryIndex, error) {
	idx := model.NewCategoryIndex()
	if err := yaml.Unmarshal(b, idx); err != nil {
		return nil, err
	}
	if idx.Memories == nil {
		idx.Memories = []model.MemoryEntry{}
	}
	if idx.Subcategories == nil {
		idx.Subcategories = []model.SubcategoryEntry{}
	}
	return idx, nil
}

func encodeIndex(idx *model.CategoryIndex) ([]byte, error) {
	return yaml.Marshal(idx)
}

// readIndexOrNew loads the named index, returning a fresh empty one
// when none exists. Used by the incremental upsert so a first write
// into a new category self-bootstraps its whole ancestor chain.
func (s *Store) readIndexOrNew(name string) (*model.CategoryIndex, bool, error) {
	idx, found, err := s.readIndex(name)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return model.NewCategoryIndex(), false, nil
	}
	return idx, true, nil
}

// memoryEntryFor builds the index entry for a memory from its raw file
// contents. Token estimate and summary come from the parsed body; when
// the serializer cannot parse the file the raw text is estimated
// instead so the entry still carries a usable size.
func (s *Store) memoryEntryFor(p slug.Path, contents string) model.MemoryEntry {
	entry := model.MemoryEntry{Path: p.String()}
	mem, err := s.ser.Parse(contents)
	if err != nil {
		s.log.Warn("store: memory content not parseable, indexing raw size without summary",
			"path", p.String(), "err", err)
		entry.Tokens = s.est.Estimate(contents)
		return entry
	}
	entry.Tokens = s.est.Estimate(mem.Content)
	entry.Summary = markdown.Summarize(mem.Content, summaryMaxLen)
	return entry
}

// updateIndexesForWrite performs the incremental index upsert for a
// just-written memory file:
//
//  1. upsert the memory entry into its immediate parent's index;
//  2. walk the ancestor chain from the top-level category down,
//     registering each category as a subcategory of its parent with the
//     child's current direct memory count.
//
// Every read along the chain uses create-when-missing semantics, and
// the walk reaches the root, so the top-level category is always
// registered as a root subcategory. Caller holds s.mu.
func (s *Store) updateIndexesForWrite(ctx context.Context, p slug.Path, contents string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parent := p.Parent()

	parentIdx, _, err := s.readIndexOrNew(parent.String())
	if err != nil {
		return err
	}
	parentIdx.UpsertMemory(s.memoryEntryFor(p, contents))
	if err := s.writeIndex(parent.String(), parentIdx); err != nil {
		return err
	}

	return s.registerCategoryChain(ctx, parent)
}

// registerCategoryChain upserts each category along path into its
// parent's index, ancestors first. Child indexes are lazily created on
// disk so the chain is fully connected from the root. Caller holds
// s.mu.
func (s *Store) registerCategoryChain(ctx context.Context, path slug.Path) error {
	for i := 1; i <= len(path); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		child := path[:i]
		childIdx, found, err := s.readIndexOrNew(child.String())
		if err != nil {
			return err
		}
		if !found {
			if err := s.writeIndex(child.String(), childIdx); err != nil {
				return err
			}
		}

		parent := child.Parent()
		parentIdx, _, err := s.readIndexOrNew(parent.String())
		if err != nil {
			return err
		}
		parentIdx.UpsertSubcategory(model.SubcategoryEntry{
			Path:        child.String(),
			MemoryCount: len(childIdx.Memories),
		})
		if err := s.writeIndex(parent.String(), parentIdx); err != nil {
			return err
		}
	}
	return nil
}
