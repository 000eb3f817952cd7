package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/slug"
)

const stagingPrefix = ".reindex-"

// Reindex rebuilds the entire index tree from the raw file layout. It
// is used for repair, after bulk filesystem changes, and after
// operations (remove, move, prune) that change counts at every
// ancestor level.
//
// The rebuild is staged: all new index documents are written under a
// uniquely named staging directory first, then committed file by file
// via rename, so a failure during the build phase leaves the live tree
// untouched. The staging directory name carries a ULID so concurrent
// or crashed generations never collide.
func (s *Store) Reindex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reindex(ctx)
}

// reindex is the lock-free core; caller holds s.mu.
func (s *Store) reindex(ctx context.Context) error {
	files, dirs, err := s.scanTree(ctx)
	if err != nil {
		return err
	}

	indexes := map[string]*model.CategoryIndex{"": model.NewCategoryIndex()}
	ensure := func(name string) *model.CategoryIndex {
		idx, ok := indexes[name]
		if !ok {
			idx = model.NewCategoryIndex()
			indexes[name] = idx
		}
		return idx
	}

	// Every directory is a category, even when empty: subcategory
	// entries persist with a zero count until the directory itself is
	// deleted.
	categories := make([]slug.Path, 0, len(dirs))
	for _, rel := range dirs {
		cat, err := slug.ParseCategory(rel)
		if err != nil {
			return model.WrapPathError(model.ErrIndexUpdateFailed,
				"directory does not form a valid category path", rel, err)
		}
		categories = append(categories, cat)
		ensure(cat.String())
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return model.WrapError(model.ErrIndexUpdateFailed, "reindex cancelled", err)
		}
		raw := strings.TrimSuffix(filepath.ToSlash(rel), s.memExt)
		p, err := slug.ParseMemory(raw)
		if err != nil {
			return model.WrapPathError(model.ErrIndexUpdateFailed,
				"file does not resolve to a valid memory identity", rel, err)
		}
		contents, found, err := s.ReadMemoryFile(p)
		if err != nil {
			return err
		}
		if !found {
			// Raced with a concurrent external delete; rebuild from
			// what is actually there.
			continue
		}
		ensure(p.Parent().String()).UpsertMemory(s.memoryEntryFor(p, contents))
	}

	// Register every category in its parent, ancestors included, so the
	// tree is connected from the root. This pass is independent of the
	// incremental algorithm and must agree with it.
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].String() < categories[j].String()
	})
	for _, cat := range categories {
		for i := 1; i <= len(cat); i++ {
			child := cat[:i]
			childIdx := ensure(child.String())
			ensure(child.Parent().String()).UpsertSubcategory(model.SubcategoryEntry{
				Path:        child.String(),
				MemoryCount: len(childIdx.Memories),
			})
		}
	}

	return s.commitIndexes(ctx, indexes)
}

// scanTree walks the store root depth-first with an explicit stack,
// collecting root-relative memory file paths and category directories.
// Dot-prefixed names (staging directories, VCS metadata) are skipped.
// A missing root yields empty results rather than an error.
func (s *Store) scanTree(ctx context.Context) (files, dirs []string, err error) {
	stack := []string{""}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, model.WrapError(model.ErrIndexUpdateFailed, "reindex cancelled", err)
		}
		rel := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(s.root, rel))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, nil, model.WrapPathError(model.ErrReadFailed, "scan store tree", rel, err)
		}
		for _, e := range entries {
			name := e.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			child := filepath.Join(rel, name)
			if e.IsDir() {
				dirs = append(dirs, filepath.ToSlash(child))
				stack = append(stack, child)
				continue
			}
			if filepath.Ext(name) == s.memExt {
				files = append(files, filepath.ToSlash(child))
			}
		}
	}
	return files, dirs, nil
}

// commitIndexes writes all computed indexes into a staging directory,
// then moves each into place. The build phase, where serialization or
// I/O failures are plausible, never touches the live tree; on failure
// the staging directory is removed and the old generation stays fully
// intact. The commit phase is plain renames within one filesystem.
func (s *Store) commitIndexes(ctx context.Context, indexes map[string]*model.CategoryIndex) error {
	staging := filepath.Join(s.root, stagingPrefix+ulid.Make().String())
	if err := os.MkdirAll(staging, 0o750); err != nil {
		return model.WrapError(model.ErrWriteFailed, "create reindex staging directory", err)
	}
	cleanup := func() { os.RemoveAll(staging) }

	names := make([]string, 0, len(indexes))
	for name := range indexes {
		names = append(names, name)
	}
	sort.Strings(names)

	type staged struct{ from, to string }
	var moves []staged
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			cleanup()
			return model.WrapError(model.ErrIndexUpdateFailed, "reindex cancelled", err)
		}
		b, err := encodeIndex(indexes[name])
		if err != nil {
			cleanup()
			return model.WrapPathError(model.ErrWriteFailed, "serialize index", name, err)
		}
		from := filepath.Join(staging, filepath.FromSlash(name), "index"+s.idxExt)
		if err := os.MkdirAll(filepath.Dir(from), 0o750); err != nil {
			cleanup()
			return model.WrapPathError(model.ErrWriteFailed, "stage index directory", name, err)
		}
		if err := os.WriteFile(from, b, 0o640); err != nil {
			cleanup()
			return model.WrapPathError(model.ErrWriteFailed, "stage index file", name, err)
		}
		to, err := s.indexFilePath(name)
		if err != nil {
			cleanup()
			return err
		}
		moves = append(moves, staged{from: from, to: to})
	}

	for _, m := range moves {
		if err := os.MkdirAll(filepath.Dir(m.to), 0o750); err != nil {
			cleanup()
			return model.WrapError(model.ErrWriteFailed, "create category directory", err)
		}
		if err := os.Rename(m.from, m.to); err != nil {
			cleanup()
			return model.WrapError(model.ErrWriteFailed, "commit index file", err)
		}
	}
	cleanup()
	return nil
}
