// Package model defines the core memory and index data types shared by
// the storage engine, serializers, CLI, and protocol layer.
package model

import "time"

// Metadata holds the structured fields of a memory file's front matter.
type Metadata struct {
	CreatedAt time.Time  `yaml:"createdAt" json:"created_at"`
	UpdatedAt time.Time  `yaml:"updatedAt" json:"updated_at"`
	Tags      []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	Source    string     `yaml:"source" json:"source"`
	ExpiresAt *time.Time `yaml:"expiresAt,omitempty" json:"expires_at,omitempty"`
	Citations []string   `yaml:"citations,omitempty" json:"citations,omitempty"`
}

// Memory is a single stored memory: metadata plus markdown content.
type Memory struct {
	Metadata Metadata `json:"metadata"`
	Content  string   `json:"content"`
}

// IsExpired reports whether the memory's expiration has passed at now.
// A memory without an expiration never expires. Expiration is a derived
// view: the stored file is identical either side of the deadline.
func (m *Memory) IsExpired(now time.Time) bool {
	if m.Metadata.ExpiresAt == nil {
		return false
	}
	return !m.Metadata.ExpiresAt.After(now)
}
