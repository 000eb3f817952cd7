package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/slug"
)

const escapeMessage = "path escapes storage root"

// resolve joins parts under the store root and verifies the result
// stays inside it. The check is done on the computed relative path, not
// by string prefix matching, so ".." segments and absolute-path tricks
// fail regardless of how they are spelled.
func (s *Store) resolve(parts ...string) (string, error) {
	target := filepath.Join(append([]string{s.root}, parts...)...)
	rel, err := filepath.Rel(s.root, target)
	if err != nil {
		return "", model.WrapPathError(model.ErrReadFailed, escapeMessage,
			strings.Join(parts, "/"), err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", model.NewPathError(model.ErrReadFailed, escapeMessage,
			strings.Join(parts, "/"))
	}
	return target, nil
}

// memoryFilePath maps a memory identity to its file under the root.
func (s *Store) memoryFilePath(p slug.Path) (string, error) {
	parts := make([]string, len(p))
	copy(parts, p)
	parts[len(parts)-1] += s.memExt
	return s.resolve(parts...)
}

// indexFilePath maps a category name to its index file. The empty name
// denotes the root index at <root>/index<ext>; any other name denotes
// <root>/<name>/index<ext>.
func (s *Store) indexFilePath(name string) (string, error) {
	if name == "" {
		return s.resolve("index" + s.idxExt)
	}
	return s.resolve(name, "index"+s.idxExt)
}

// ReadMemoryFile returns the raw contents of the memory file at p. The
// second return is false when the file does not exist, which is not an
// error.
func (s *Store) ReadMemoryFile(p slug.Path) (string, bool, error) {
	path, err := s.memoryFilePath(p)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, model.WrapPathError(model.ErrReadFailed,
			"read memory file", p.String(), err)
	}
	return string(b), true, nil
}

// WriteOptions controls side effects of WriteMemoryFile.
type WriteOptions struct {
	// SkipIndexUpdate suppresses the incremental index upsert that
	// otherwise follows every memory write.
	SkipIndexUpdate bool
}

// WriteMemoryFile writes contents to the memory file at p, creating
// parent directories as needed, then upserts the memory into the index
// tree unless opts.SkipIndexUpdate is set.
func (s *Store) WriteMemoryFile(ctx context.Context, p slug.Path, contents string, opts WriteOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeMemoryFile(ctx, p, contents, opts)
}

func (s *Store) writeMemoryFile(ctx context.Context, p slug.Path, contents string, opts WriteOptions) error {
	path, err := s.memoryFilePath(p)
	if err != nil {
		return model.WrapPathError(model.ErrWriteFailed, escapeMessage, p.String(), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "create category directory", p.String(), err)
	}
	// Write through a temp file and rename so readers never observe a
	// half-written memory.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(contents), 0o640); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "write memory file", p.String(), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return model.WrapPathError(model.ErrWriteFailed, "write memory file", p.String(), err)
	}
	if opts.SkipIndexUpdate {
		return nil
	}
	if err := s.updateIndexesForWrite(ctx, p, contents); err != nil {
		return model.WrapPathError(model.ErrIndexUpdateFailed,
			"update indexes after write", p.String(), err)
	}
	return nil
}

// RemoveMemoryFile deletes the memory file at p. Removing an absent
// file is success; callers that need not-found semantics check
// existence first.
func (s *Store) RemoveMemoryFile(p slug.Path) error {
	path, err := s.memoryFilePath(p)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return model.WrapPathError(model.ErrWriteFailed, "remove memory file", p.String(), err)
	}
	return nil
}

// MoveMemoryFile renames the memory file at from to to. The
// destination's category directory must already exist; the move fails
// without partial state when it is absent.
func (s *Store) MoveMemoryFile(from, to slug.Path) error {
	src, err := s.memoryFilePath(from)
	if err != nil {
		return err
	}
	dst, err := s.memoryFilePath(to)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Dir(dst)); err != nil {
		return model.WrapPathError(model.ErrWriteFailed,
			"destination category directory does not exist", to.String(), err)
	}
	if err := os.Rename(src, dst); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "move memory file", from.String(), err)
	}
	return nil
}

// CategoryExists reports whether the category directory exists.
func (s *Store) CategoryExists(p slug.Path) (bool, error) {
	path, err := s.resolve(p...)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, model.WrapPathError(model.ErrReadFailed, "stat category", p.String(), err)
	}
	return info.IsDir(), nil
}

// EnsureCategoryDirectory creates the category directory and any
// missing ancestors.
func (s *Store) EnsureCategoryDirectory(p slug.Path) error {
	path, err := s.resolve(p...)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "create category directory", p.String(), err)
	}
	return nil
}

// DeleteCategoryDirectory recursively removes the category directory.
// Deleting an absent directory is success.
func (s *Store) DeleteCategoryDirectory(p slug.Path) error {
	path, err := s.resolve(p...)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "delete category directory", p.String(), err)
	}
	return nil
}

// readIndex loads and decodes the index document for the named
// category. The second return is false when no index exists yet, which
// read paths treat as an empty category.
func (s *Store) readIndex(name string) (*model.CategoryIndex, bool, error) {
	path, err := s.indexFilePath(name)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, model.WrapPathError(model.ErrReadFailed, "read index file", name, err)
	}
	idx, err := decodeIndex(b)
	if err != nil {
		return nil, false, model.WrapPathError(model.ErrIndexParseFailed, "parse index file", name, err)
	}
	return idx, true, nil
}

// writeIndex encodes and writes the index document for the named
// category, creating its directory when missing.
func (s *Store) writeIndex(name string, idx *model.CategoryIndex) error {
	path, err := s.indexFilePath(name)
	if err != nil {
		return err
	}
	b, err := encodeIndex(idx)
	if err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "serialize index", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "create category directory", name, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o640); err != nil {
		return model.WrapPathError(model.ErrWriteFailed, "write index file", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return model.WrapPathError(model.ErrWriteFailed, "write index file", name, err)
	}
	return nil
}
