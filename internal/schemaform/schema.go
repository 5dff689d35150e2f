package schemaform

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Reserved schema keys.
const (
	SelectOptionsKey = "_selectOptions"
	LayoutKey        = "_layout"
)

// Entry is one schema field with its representative value. The value is only
// used for inference, never as a default.
type Entry struct {
	Name   string
	Sample any
}

// Schema is an ordered set of entries plus side-channel hints.
type Schema struct {
	Entries       []Entry
	SelectOptions map[string][]string
	Layout        map[string]int
}

// Field is a resolved, renderable form field.
type Field struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Kind        WidgetKind `json:"kind"`
	Span        int        `json:"span"`
	ReadOnly    bool       `json:"readOnly"`
	Options     []Option   `json:"options,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// Option is a select choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Fields resolves the schema in declaration order. Group fields are dropped
// and do not take a layout slot.
func (s Schema) Fields() []Field {
	out := make([]Field, 0, len(s.Entries))
	for _, e := range s.Entries {
		kind := Infer(e.Name, e.Sample)
		if kind == KindGroup {
			continue
		}
		f := Field{
			Name:     e.Name,
			Label:    Label(e.Name),
			Kind:     kind,
			Span:     s.span(e.Name),
			ReadOnly: ReadOnly(e.Name),
		}
		if kind == KindSelect {
			for _, v := range s.SelectOptions[e.Name] {
				f.Options = append(f.Options, Option{Value: v, Label: capitalize(v)})
			}
			f.Placeholder = "Select " + e.Name
		}
		out = append(out, f)
	}
	return out
}

func (s Schema) span(name string) int {
	if s.Layout[name] == 2 {
		return 2
	}
	return 1
}

// ParseYAML reads a schema document. Key order is kept. JSON input works too.
func ParseYAML(data []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	s := Schema{SelectOptions: map[string][]string{}, Layout: map[string]int{}}
	if doc.Kind == 0 {
		return s, nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return Schema{}, fmt.Errorf("parse schema: top level must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case SelectOptionsKey:
			if err := val.Decode(&s.SelectOptions); err != nil {
				return Schema{}, fmt.Errorf("parse %s: %w", key, err)
			}
		case LayoutKey:
			if err := val.Decode(&s.Layout); err != nil {
				return Schema{}, fmt.Errorf("parse %s: %w", key, err)
			}
		default:
			var sample any
			if err := val.Decode(&sample); err != nil {
				return Schema{}, fmt.Errorf("parse field %q: %w", key, err)
			}
			s.Entries = append(s.Entries, Entry{Name: key, Sample: sample})
		}
	}
	return s, nil
}

// Label turns a camelCase or snake_case key into a title.
func Label(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// DefaultCreateSchema is the memo creation form.
func DefaultCreateSchema() Schema {
	return Schema{
		Entries: []Entry{
			{Name: "referenceNumber", Sample: ""},
			{Name: "status", Sample: ""},
			{Name: "subject", Sample: ""},
			{Name: "description", Sample: ""},
			{Name: "attachments", Sample: []any{}},
		},
		SelectOptions: map[string][]string{
			"status": {"draft", "reviewed"},
		},
		Layout: map[string]int{
			"referenceNumber": 1,
			"status":          1,
			"subject":         2,
			"description":     2,
			"attachments":     2,
		},
	}
}
