// Package store implements the hierarchical file-backed memory store:
// a sandboxed filesystem adapter, the per-category index engine, and
// the memory lifecycle operations built on both.
package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Yeseh/cortex/internal/markdown"
	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/tokens"
)

// Serializer is the injected capability that maps memory files between
// their raw on-disk text and the Memory model. The store is agnostic to
// the format; internal/markdown provides the front-matter reference
// implementation.
type Serializer interface {
	Parse(raw string) (*model.Memory, error)
	Serialize(m *model.Memory) (string, error)
}

const (
	defaultMemoryExtension = ".md"
	defaultIndexExtension  = ".yaml"
	summaryMaxLen          = 120
)

// Options configures a Store. Only Root is required.
type Options struct {
	// Root is the store root directory; every path resolves under it.
	Root string
	// MemoryExtension is the memory file extension (default ".md").
	MemoryExtension string
	// IndexExtension is the index file extension (default ".yaml").
	IndexExtension string
	// Serializer handles the memory file format (default markdown
	// front matter).
	Serializer Serializer
	// Estimator produces token estimates for index entries (default
	// tiktoken with a heuristic fallback).
	Estimator tokens.Estimator
	Logger    *slog.Logger
}

// Store is a file-backed hierarchical memory store rooted at a single
// directory. All index mutations are serialized by a store-wide mutex:
// the incremental upsert walks a read-modify-write chain across
// ancestor indexes, so per-category locking would deadlock on the
// chain while last-writer-wins would drop entries.
type Store struct {
	root   string
	memExt string
	idxExt string
	ser    Serializer
	est    tokens.Estimator
	log    *slog.Logger

	mu sync.Mutex
}

// normalizeExt ensures an extension carries its leading dot.
func normalizeExt(ext, fallback string) string {
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// New opens (creating if needed) a store rooted at opts.Root.
func New(opts Options) (*Store, error) {
	if opts.Root == "" {
		return nil, model.NewError(model.ErrInvalidInput, "store root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, model.WrapError(model.ErrStorage, "resolve store root", err)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, model.WrapPathError(model.ErrStorage, "create store root", root, err)
	}

	s := &Store{
		root:   root,
		memExt: normalizeExt(opts.MemoryExtension, defaultMemoryExtension),
		idxExt: normalizeExt(opts.IndexExtension, defaultIndexExtension),
		ser:    opts.Serializer,
		est:    opts.Estimator,
		log:    opts.Logger,
	}
	if s.ser == nil {
		s.ser = markdown.Serializer{}
	}
	if s.est == nil {
		s.est = tokens.Default()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s, nil
}

// Root returns the absolute store root directory.
func (s *Store) Root() string {
	return s.root
}

// orNow returns the override when set, otherwise the current UTC time.
// Operations take an optional Now so expiry behavior is testable.
func orNow(override time.Time) time.Time {
	if !override.IsZero() {
		return override
	}
	return time.Now().UTC()
}

// Operations is the surface consumed by collaborators such as the CLI
// and the protocol-server tool layer.
type Operations interface {
	Create(ctx context.Context, p CreateParams) (*model.Memory, error)
	Get(ctx context.Context, p GetParams) (*model.Memory, error)
	Update(ctx context.Context, p UpdateParams) (*model.Memory, error)
	Remove(ctx context.Context, path string) error
	Move(ctx context.Context, from, to string) error
	List(ctx context.Context, p ListParams) (*ListResult, error)
	Prune(ctx context.Context, p PruneParams) (*PruneResult, error)
	Reindex(ctx context.Context) error
}

var _ Operations = (*Store)(nil)
