package schemaform

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/memodesk/internal/format"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/pkg/core"
)

// Payload is the flat field-to-value mapping emitted on submit. File fields
// hold []memo.Attachment, checkboxes hold bool, everything else a string.
type Payload map[string]any

// String returns the string value of key, or "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Bool returns the boolean value of key.
func (p Payload) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Attachments returns the attachment list of key.
func (p Payload) Attachments(key string) []memo.Attachment {
	a, _ := p[key].([]memo.Attachment)
	return a
}

// SubmitFunc receives the payload. A non-nil error keeps the form intact.
type SubmitFunc func(ctx context.Context, p Payload) error

// Form holds the editable state of a rendered schema.
type Form struct {
	mu     sync.Mutex
	fields []Field
	index  map[string]int
	values map[string]any
	files  map[string][]memo.PendingFile
	drag   map[string]bool
}

// NewForm renders s with every field empty.
func NewForm(s Schema) *Form {
	f := &Form{fields: s.Fields(), index: map[string]int{}}
	for i, fd := range f.fields {
		f.index[fd.Name] = i
	}
	f.reset()
	return f
}

// Fields returns the rendered fields.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

func (f *Form) field(name string) (Field, error) {
	i, ok := f.index[name]
	if !ok {
		return Field{}, fmt.Errorf("unknown field %q", name)
	}
	return f.fields[i], nil
}

// Set changes a field from user input. Read-only fields reject the change.
func (f *Form) Set(name string, v any) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	if fd.ReadOnly {
		return fmt.Errorf("%s: %w", name, core.ErrReadOnlyField)
	}
	return f.assign(fd, v)
}

// Prefill sets a field on behalf of the host, bypassing the read-only lock.
func (f *Form) Prefill(name string, v any) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	return f.assign(fd, v)
}

func (f *Form) assign(fd Field, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch fd.Kind {
	case KindCheckbox:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%s: want bool, got %T", fd.Name, v)
		}
		f.values[fd.Name] = b
	case KindFile:
		return fmt.Errorf("%s: use AddFiles for file fields", fd.Name)
	default:
		f.values[fd.Name] = format.Stringify(v)
	}
	return nil
}

// AddFiles appends files to a file field. Duplicates are kept.
func (f *Form) AddFiles(name string, files ...memo.PendingFile) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	if fd.Kind != KindFile {
		return fmt.Errorf("%s is not a file field", name)
	}
	f.mu.Lock()
	f.files[name] = append(f.files[name], files...)
	f.mu.Unlock()
	return nil
}

// RemoveFile drops the file at index i.
func (f *Form) RemoveFile(name string, i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.files[name]
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%s: file index %d out of range", name, i)
	}
	f.files[name] = append(list[:i:i], list[i+1:]...)
	return nil
}

// Files returns the pending files of a field in insertion order.
func (f *Form) Files(name string) []memo.PendingFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]memo.PendingFile(nil), f.files[name]...)
}

// SetDragActive toggles the drop-zone highlight of a field.
func (f *Form) SetDragActive(name string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if active {
		f.drag[name] = true
	} else {
		delete(f.drag, name)
	}
}

// DragActive reports the drop-zone highlight of a field.
func (f *Form) DragActive(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drag[name]
}

// Value returns the current value of a non-file field.
func (f *Form) Value(name string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Payload snapshots the current values.
func (f *Form) Payload() Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := make(Payload, len(f.fields))
	for _, fd := range f.fields {
		if fd.Kind == KindFile {
			atts := make([]memo.Attachment, 0, len(f.files[fd.Name]))
			for _, pf := range f.files[fd.Name] {
				atts = append(atts, memo.PendingAttachment(pf))
			}
			p[fd.Name] = atts
			continue
		}
		p[fd.Name] = f.values[fd.Name]
	}
	return p
}

// Submit hands the payload to fn and clears the form once fn succeeds.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc) error {
	if err := fn(ctx, f.Payload()); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// Reset empties every field according to its inferred kind.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *Form) reset() {
	f.values = make(map[string]any, len(f.fields))
	f.files = map[string][]memo.PendingFile{}
	f.drag = map[string]bool{}
	for _, fd := range f.fields {
		switch fd.Kind {
		case KindCheckbox:
			f.values[fd.Name] = false
		case KindFile:
			f.files[fd.Name] = []memo.PendingFile{}
		default:
			f.values[fd.Name] = ""
		}
	}
}
