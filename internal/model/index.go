package model

import "sort"

// MemoryEntry is one memory as recorded in its immediate parent
// category's index. Tokens is a deterministic size estimate of the
// memory content, kept so consumers can do budget math without reading
// the file itself.
type MemoryEntry struct {
	Path    string `yaml:"path" json:"path"`
	Tokens  int    `yaml:"tokens" json:"tokens"`
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`
}

// SubcategoryEntry is one direct child category as recorded in its
// parent's index. MemoryCount is the child's own direct memory count,
// not a recursive total.
type SubcategoryEntry struct {
	Path        string `yaml:"path" json:"path"`
	MemoryCount int    `yaml:"memoryCount" json:"memory_count"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// CategoryIndex is the per-category index document. The root category
// is keyed by the empty path. Both lists are kept sorted by path so
// serialized output is deterministic.
type CategoryIndex struct {
	Memories      []MemoryEntry      `yaml:"memories" json:"memories"`
	Subcategories []SubcategoryEntry `yaml:"subcategories" json:"subcategories"`
}

// NewCategoryIndex returns an empty index with non-nil slices, so an
// index freshly created for a new category serializes with explicit
// empty lists.
func NewCategoryIndex() *CategoryIndex {
	return &CategoryIndex{
		Memories:      []MemoryEntry{},
		Subcategories: []SubcategoryEntry{},
	}
}

// UpsertMemory replaces the entry with the same path or inserts a new
// one, keeping Memories sorted by path.
func (ci *CategoryIndex) UpsertMemory(e MemoryEntry) {
	for i := range ci.Memories {
		if ci.Memories[i].Path == e.Path {
			ci.Memories[i] = e
			return
		}
	}
	ci.Memories = append(ci.Memories, e)
	sort.Slice(ci.Memories, func(i, j int) bool {
		return ci.Memories[i].Path < ci.Memories[j].Path
	})
}

// UpsertSubcategory replaces the entry with the same path or inserts a
// new one, keeping Subcategories sorted by path. An existing
// description is preserved when the replacement carries none.
func (ci *CategoryIndex) UpsertSubcategory(e SubcategoryEntry) {
	for i := range ci.Subcategories {
		if ci.Subcategories[i].Path == e.Path {
			if e.Description == "" {
				e.Description = ci.Subcategories[i].Description
			}
			ci.Subcategories[i] = e
			return
		}
	}
	ci.Subcategories = append(ci.Subcategories, e)
	sort.Slice(ci.Subcategories, func(i, j int) bool {
		return ci.Subcategories[i].Path < ci.Subcategories[j].Path
	})
}

// RemoveMemory deletes the entry with the given path, if present.
func (ci *CategoryIndex) RemoveMemory(path string) {
	for i := range ci.Memories {
		if ci.Memories[i].Path == path {
			ci.Memories = append(ci.Memories[:i], ci.Memories[i+1:]...)
			return
		}
	}
}
