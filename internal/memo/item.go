// Package memo defines the memo item, its reviews and attachments.
package memo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/memodesk/pkg/core"
)

// Field limits.
const (
	MaxSubject     = 255
	MaxDescription = 10000
	MaxReference   = 50
	MaxComments    = 2000
)

// Item is a memo.
type Item struct {
	ID               string       `json:"id,omitempty"`
	Subject          string       `json:"subject"`
	Owner            string       `json:"owner"`
	Description      string       `json:"description,omitempty"`
	StylusComments   string       `json:"stylusComments,omitempty"`
	ReferenceNumber  string       `json:"referenceNumber,omitempty"`
	Status           string       `json:"status,omitempty"`
	ReviewStatus     string       `json:"reviewStatus,omitempty"`
	DivisionInCharge string       `json:"divisionInCharge,omitempty"`
	AssignedTo       string       `json:"assignedTo,omitempty"`
	Priority         string       `json:"priority,omitempty"`
	Date             string       `json:"date,omitempty"`
	CreatedAt        *time.Time   `json:"createdAt,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	Reviews          []Review     `json:"reviewsSection,omitempty"`

	// Title and Tags feed the tabular dashboard view.
	Title string `json:"title,omitempty"`
	Tags  Tags   `json:"tags,omitempty"`
}

// Body returns the rich-text description, falling back to stylus comments.
func (it Item) Body() string {
	if it.Description != "" {
		return it.Description
	}
	return it.StylusComments
}

// Validate checks required fields and length limits.
func (it Item) Validate() error {
	var errs []error
	if strings.TrimSpace(it.Subject) == "" {
		errs = append(errs, errors.New("subject is required"))
	}
	if it.Owner == "" {
		errs = append(errs, errors.New("owner is required"))
	}
	errs = append(errs,
		checkLen("subject", it.Subject, MaxSubject),
		checkLen("description", it.Body(), MaxDescription),
		checkLen("referenceNumber", it.ReferenceNumber, MaxReference),
	)
	for i, r := range it.Reviews {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("review %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidItem, err)
	}
	return nil
}

func checkLen(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return fmt.Errorf("%s exceeds %d characters (%d)", field, limit, n)
	}
	return nil
}

// Review is a reviewer's entry on an item. Reviews are append-only.
type Review struct {
	Reviewer      string    `json:"reviewer"`
	ActionOfficer string    `json:"actionOfficer,omitempty"`
	Comments      string    `json:"comments,omitempty"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status,omitempty"`
	Signature     string    `json:"signature,omitempty"`
}

// Validate checks required fields and length limits.
func (r Review) Validate() error {
	if r.Date.IsZero() {
		return errors.New("review date is required")
	}
	return checkLen("comments", r.Comments, MaxComments)
}

// PendingFile is a local file that has not been uploaded yet.
type PendingFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Attachment is either a persisted file reference or a pending local file.
// Exactly one of Ref and Pending is set.
type Attachment struct {
	Ref     string
	Pending *PendingFile
}

// RefAttachment wraps a persisted reference.
func RefAttachment(ref string) Attachment { return Attachment{Ref: ref} }

// PendingAttachment wraps a local file.
func PendingAttachment(f PendingFile) Attachment { return Attachment{Pending: &f} }

// IsPending reports whether the attachment still needs uploading.
func (a Attachment) IsPending() bool { return a.Pending != nil }

var errPendingAttachment = errors.New("pending attachment cannot be serialized")

// MarshalJSON renders persisted references as plain strings. Pending files
// are rejected so they can never reach the store.
func (a Attachment) MarshalJSON() ([]byte, error) {
	if a.Pending != nil {
		return nil, fmt.Errorf("%s: %w", a.Pending.Name, errPendingAttachment)
	}
	return json.Marshal(a.Ref)
}

// UnmarshalJSON accepts a reference string or an object carrying "ref".
func (a *Attachment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Ref string `json:"ref"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*a = Attachment{Ref: obj.Ref}
		return nil
	}
	var ref string
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("attachment: %w", err)
	}
	*a = Attachment{Ref: ref}
	return nil
}

// Tags decodes from either a list of strings or a single scalar.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(Tags, 0, len(raw))
		for _, v := range raw {
			out = append(out, fmt.Sprint(v))
		}
		*t = out
		return nil
	}
	var scalar any
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	*t = Tags{fmt.Sprint(scalar)}
	return nil
}

// String joins the tags with single spaces.
func (t Tags) String() string {
	return strings.Join(t, " ")
}
