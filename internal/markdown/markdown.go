// Package markdown implements the on-disk memory file format: YAML
// front matter followed by a markdown body. It is the reference
// implementation of the serializer capability the storage engine takes
// as an injected dependency; the engine itself is format-agnostic.
package markdown

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Yeseh/cortex/internal/model"
)

const frontMatterDelimiter = "---"

// Serializer parses and renders memory files in front-matter form.
// The zero value is ready to use.
type Serializer struct{}

// Parse deserializes a raw memory file into a Memory. Malformed front
// matter yields a MEMORY_PARSE_FAILED error.
func (Serializer) Parse(raw string) (*model.Memory, error) {
	if !strings.HasPrefix(raw, frontMatterDelimiter) {
		return nil, model.NewError(model.ErrMemoryParseFailed,
			"missing front-matter delimiter")
	}
	rest := raw[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx == -1 {
		return nil, model.NewError(model.ErrMemoryParseFailed,
			"unclosed front-matter block")
	}
	yamlBlock := rest[:idx]
	bodyRaw := rest[idx+len("\n"+frontMatterDelimiter):]
	// Drop the newline ending the closing delimiter line, plus one
	// separating blank line when present.
	body := bodyRaw
	if strings.HasPrefix(bodyRaw, "\n\n") {
		body = bodyRaw[2:]
	} else if strings.HasPrefix(bodyRaw, "\n") {
		body = bodyRaw[1:]
	}

	var meta model.Metadata
	if err := yaml.Unmarshal([]byte(yamlBlock), &meta); err != nil {
		return nil, model.WrapError(model.ErrMemoryParseFailed,
			"front-matter parse error", err)
	}
	return &model.Memory{Metadata: meta, Content: body}, nil
}

// Serialize renders a Memory to its on-disk representation.
func (Serializer) Serialize(m *model.Memory) (string, error) {
	yamlBytes, err := yaml.Marshal(&m.Metadata)
	if err != nil {
		return "", model.WrapError(model.ErrMemoryParseFailed,
			"front-matter serialize error", err)
	}
	var sb strings.Builder
	sb.WriteString(frontMatterDelimiter + "\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontMatterDelimiter + "\n\n")
	sb.WriteString(m.Content)
	return sb.String(), nil
}

// Summarize extracts a one-line summary for index entries: the first
// non-heading, non-blank line of the body, truncated to maxLen runes.
func Summarize(content string, maxLen int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxLen {
			if maxLen <= 3 {
				return string(runes[:maxLen])
			}
			return string(runes[:maxLen-3]) + "..."
		}
		return line
	}
	return ""
}
