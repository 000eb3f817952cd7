package store

import (
	"context"
	"time"

	"github.com/Yeseh/cortex/internal/model"
	"github.com/Yeseh/cortex/internal/slug"
)

// CreateParams holds parameters for creating a memory.
type CreateParams struct {
	Path      string
	Content   string
	Tags      []string
	Source    string
	ExpiresAt *time.Time
	Citations []string
	Now       time.Time // optional clock override
}

// Create writes a new memory at the given path, creating parent
// categories implicitly and updating the index tree. An existing memory
// at the same path is replaced.
func (s *Store) Create(ctx context.Context, p CreateParams) (*model.Memory, error) {
	path, err := slug.ParseMemory(p.Path)
	if err != nil {
		return nil, err
	}
	now := orNow(p.Now)
	mem := &model.Memory{
		Metadata: model.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
			Tags:      p.Tags,
			Source:    p.Source,
			ExpiresAt: p.ExpiresAt,
			Citations: p.Citations,
		},
		Content: p.Content,
	}
	raw, err := s.ser.Serialize(mem)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeMemoryFile(ctx, path, raw, WriteOptions{}); err != nil {
		return nil, err
	}
	return mem, nil
}

// GetParams holds parameters for retrieving a memory.
type GetParams struct {
	Path           string
	IncludeExpired bool
	Now            time.Time
}

// Get retrieves and parses the memory at the given path. Expired
// memories are withheld unless IncludeExpired is set.
func (s *Store) Get(ctx context.Context, p GetParams) (*model.Memory, error) {
	path, err := slug.ParseMemory(p.Path)
	if err != nil {
		return nil, err
	}
	raw, found, err := s.ReadMemoryFile(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewPathError(model.ErrMemoryNotFound, "memory not found", path.String())
	}
	mem, err := s.ser.Parse(raw)
	if err != nil {
		return nil, model.WrapPathError(model.ErrMemoryParseFailed,
			"memory file is corrupt", path.String(), err)
	}
	if !p.IncludeExpired && mem.IsExpired(orNow(p.Now)) {
		return nil, model.NewPathError(model.ErrMemoryExpired, "memory has expired", path.String())
	}
	return mem, nil
}

// UpdateParams holds the partial-update fields for a memory. Nil
// pointer fields are left unchanged. For expiry the three-way
// distinction matters: ExpiresAt nil with ClearExpiresAt false
// preserves the current value, ClearExpiresAt true removes it, and a
// non-nil ExpiresAt replaces it.
type UpdateParams struct {
	Path           string
	Content        *string
	Tags           *[]string
	Citations      *[]string
	ExpiresAt      *time.Time
	ClearExpiresAt bool
	Now            time.Time
}

func (p *UpdateParams) empty() bool {
	return p.Content == nil && p.Tags == nil && p.Citations == nil &&
		p.ExpiresAt == nil && !p.ClearExpiresAt
}

// Update merges the provided fields into the stored memory, bumps
// UpdatedAt, and re-runs the index upsert. CreatedAt never changes.
func (s *Store) Update(ctx context.Context, p UpdateParams) (*model.Memory, error) {
	if p.empty() {
		return nil, model.NewError(model.ErrInvalidInput,
			"update requires at least one field")
	}
	path, err := slug.ParseMemory(p.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, found, err := s.ReadMemoryFile(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewPathError(model.ErrMemoryNotFound, "memory not found", path.String())
	}
	mem, err := s.ser.Parse(raw)
	if err != nil {
		return nil, model.WrapPathError(model.ErrMemoryParseFailed,
			"memory file is corrupt", path.String(), err)
	}

	if p.Content != nil {
		mem.Content = *p.Content
	}
	if p.Tags != nil {
		mem.Metadata.Tags = *p.Tags
	}
	if p.Citations != nil {
		mem.Metadata.Citations = *p.Citations
	}
	switch {
	case p.ClearExpiresAt:
		mem.Metadata.ExpiresAt = nil
	case p.ExpiresAt != nil:
		mem.Metadata.ExpiresAt = p.ExpiresAt
	}
	mem.Metadata.UpdatedAt = orNow(p.Now)

	out, err := s.ser.Serialize(mem)
	if err != nil {
		return nil, err
	}
	if err := s.writeMemoryFile(ctx, path, out, WriteOptions{}); err != nil {
		return nil, err
	}
	return mem, nil
}

// Remove deletes the memory at the given path and rebuilds the index
// tree: removal changes counts at every ancestor level and there is no
// cheap decrement path. Removing an absent memory returns
// MEMORY_NOT_FOUND rather than succeeding silently.
func (s *Store) Remove(ctx context.Context, path string) error {
	p, err := slug.ParseMemory(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.ReadMemoryFile(p)
	if err != nil {
		return err
	}
	if !found {
		return model.NewPathError(model.ErrMemoryNotFound, "memory not found", p.String())
	}
	if err := s.RemoveMemoryFile(p); err != nil {
		return err
	}
	return s.reindex(ctx)
}

// Move renames a memory. A self-move is a no-op success with no
// filesystem mutation; moving onto an existing destination fails and
// leaves both files untouched.
func (s *Store) Move(ctx context.Context, from, to string) error {
	src, err := slug.ParseMemory(from)
	if err != nil {
		return err
	}
	dst, err := slug.ParseMemory(to)
	if err != nil {
		return err
	}
	if src.String() == dst.String() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.ReadMemoryFile(src)
	if err != nil {
		return err
	}
	if !found {
		return model.NewPathError(model.ErrMemoryNotFound, "memory not found", src.String())
	}
	_, exists, err := s.ReadMemoryFile(dst)
	if err != nil {
		return err
	}
	if exists {
		return model.NewPathError(model.ErrDestinationExists,
			"a memory already exists at the destination", dst.String())
	}
	if err := s.EnsureCategoryDirectory(dst.Parent()); err != nil {
		return err
	}
	if err := s.MoveMemoryFile(src, dst); err != nil {
		return err
	}
	return s.reindex(ctx)
}
