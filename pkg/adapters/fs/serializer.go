package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/memodesk/pkg/core"
	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific file format.
// CreatedAt is handled by the repository, serializers only see metadata.
type Serializer interface {
	// Parse reads from r and returns a Document.
	Parse(r io.Reader) (*core.Document, error)
	// Serialize converts the Document to bytes.
	Serialize(doc core.Document) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".md":   MarkdownSerializer{},
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// contentKey holds the document body in formats without a separate body section.
const contentKey = "content"

// --- JSON Serializer ---

// JSONSerializer stores metadata as a flat object with the body under "content".
type JSONSerializer struct{}

func (JSONSerializer) Parse(r io.Reader) (*core.Document, error) {
	var payload map[string]any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return splitContent(payload), nil
}

func (JSONSerializer) Serialize(doc core.Document) ([]byte, error) {
	return json.MarshalIndent(joinContent(doc), "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer mirrors JSONSerializer in YAML.
type YAMLSerializer struct{}

func (YAMLSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return splitContent(payload), nil
}

func (YAMLSerializer) Serialize(doc core.Document) ([]byte, error) {
	return yaml.Marshal(joinContent(doc))
}

func splitContent(payload map[string]any) *core.Document {
	doc := &core.Document{Metadata: make(core.Metadata, len(payload))}
	for k, v := range payload {
		if k == contentKey {
			if s, ok := v.(string); ok {
				doc.Content = s
				continue
			}
		}
		doc.Metadata[k] = v
	}
	return doc
}

func joinContent(doc core.Document) map[string]any {
	payload := make(map[string]any, len(doc.Metadata)+1)
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	payload[contentKey] = doc.Content
	return payload
}

// --- Markdown Serializer ---

// MarkdownSerializer stores metadata as YAML frontmatter followed by the body.
type MarkdownSerializer struct{}

var (
	fmOpen  = []byte("---\n")
	fmOpenR = []byte("---\r\n")
)

func (MarkdownSerializer) Parse(r io.Reader) (*core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &core.Document{Metadata: make(core.Metadata)}

	var rest []byte
	switch {
	case bytes.HasPrefix(data, fmOpen):
		rest = data[len(fmOpen):]
	case bytes.HasPrefix(data, fmOpenR):
		rest = data[len(fmOpenR):]
	default:
		doc.Content = string(data)
		return doc, nil
	}

	front, body, ok := cutFrontmatter(rest)
	if !ok {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(front, &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if doc.Metadata == nil {
		doc.Metadata = make(core.Metadata)
	}
	doc.Content = string(body)
	return doc, nil
}

// cutFrontmatter splits at the first line consisting only of "---".
func cutFrontmatter(data []byte) (front, body []byte, ok bool) {
	offset := 0
	for offset <= len(data) {
		end := bytes.IndexByte(data[offset:], '\n')
		var line []byte
		next := len(data) + 1
		if end < 0 {
			line = data[offset:]
		} else {
			line = data[offset : offset+end]
			next = offset + end + 1
		}
		if string(bytes.TrimRight(line, "\r")) == "---" {
			if next > len(data) {
				return data[:offset], nil, true
			}
			return data[:offset], data[next:], true
		}
		offset = next
	}
	return nil, nil, false
}

func (MarkdownSerializer) Serialize(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.Write(fmOpen)
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(map[string]any(doc.Metadata)); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		buf.Write(fmOpen)
	}
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}
