// Package dataaccess maps the document store onto memos for the current user.
package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/schemaform"
	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/typed"
)

// Default values applied by Submit.
const (
	DefaultStatus       = "draft"
	DefaultReviewStatus = "Pending"
)

// FileStore persists uploaded files.
type FileStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	URLFor(ref string) string
}

// Adapter is the boundary between the memo views and the document store.
type Adapter struct {
	memos    *typed.Service[memo.Item]
	users    *typed.Repository[User]
	files    FileStore
	identity IdentityProvider
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Adapter. users may be nil when profiles are not needed.
func New(memos *typed.Service[memo.Item], users *typed.Repository[User], files FileStore, identity IdentityProvider, opts ...Option) *Adapter {
	a := &Adapter{
		memos:    memos,
		users:    users,
		files:    files,
		identity: identity,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CurrentIdentity resolves the session user.
func (a *Adapter) CurrentIdentity(ctx context.Context) (Identity, error) {
	if a.identity == nil {
		return Identity{}, core.ErrNotAuthenticated
	}
	id, err := a.identity.CurrentIdentity(ctx)
	if err != nil {
		if errors.Is(err, core.ErrNotAuthenticated) {
			return Identity{}, err
		}
		return Identity{}, fmt.Errorf("%w: %w", core.ErrNotAuthenticated, err)
	}
	return id, nil
}

// ListItemsForOwner returns the owner's memos in creation order.
func (a *Adapter) ListItemsForOwner(ctx context.Context, owner string) ([]memo.Item, error) {
	docs, err := a.memos.List(ctx, core.Where("owner", owner))
	if err != nil {
		a.logger.Warn("list memos failed", "owner", owner, "error", err)
		return nil, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}
	items := make([]memo.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, toItem(d))
	}
	return items, nil
}

// ListPage returns the memos shown on page for the current user. Every list
// page draws from the same owner-scoped set; pills narrow it further.
func (a *Adapter) ListPage(ctx context.Context, page memo.PageID) ([]memo.Item, error) {
	id, err := a.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("fetching memos", "page", page, "owner", id.ID)
	return a.ListItemsForOwner(ctx, id.ID)
}

// GetItem returns one memo for the detail view. Any signed-in user may read
// it; reviewers are rarely the owner.
func (a *Adapter) GetItem(ctx context.Context, id string) (memo.Item, error) {
	if _, err := a.CurrentIdentity(ctx); err != nil {
		return memo.Item{}, err
	}
	doc, err := a.memos.Get(ctx, id)
	if err != nil {
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}
	return toItem(doc), nil
}

// CreateItem stores it as a new memo. Every attachment must already be a
// persisted reference.
func (a *Adapter) CreateItem(ctx context.Context, it memo.Item) (memo.Item, error) {
	for i, att := range it.Attachments {
		if att.IsPending() {
			return memo.Item{}, fmt.Errorf("%w: attachment %d not uploaded", core.ErrCreateFailed, i)
		}
	}
	if err := it.Validate(); err != nil {
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrCreateFailed, err)
	}
	content, data := fromItem(it)
	doc, err := a.memos.Create(ctx, content, data)
	if err != nil {
		a.logger.Error("create memo failed", "owner", it.Owner, "error", err)
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrCreateFailed, err)
	}
	a.logger.Info("memo created", "id", doc.ID, "owner", it.Owner)
	return toItem(doc), nil
}

// UploadFile persists a pending file and returns its reference.
func (a *Adapter) UploadFile(ctx context.Context, f memo.PendingFile) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("%s: no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return a.files.Upload(ctx, f.Name, rc)
}

// ResolveAttachments uploads pending entries in order and keeps existing
// references as they are.
func (a *Adapter) ResolveAttachments(ctx context.Context, atts []memo.Attachment) ([]memo.Attachment, error) {
	out := make([]memo.Attachment, 0, len(atts))
	for _, att := range atts {
		if !att.IsPending() {
			out = append(out, att)
			continue
		}
		ref, err := a.UploadFile(ctx, *att.Pending)
		if err != nil {
			return nil, err
		}
		out = append(out, memo.RefAttachment(ref))
	}
	return out, nil
}

// Submit turns a create-form payload into a stored memo owned by the
// current user.
func (a *Adapter) Submit(ctx context.Context, p schemaform.Payload) (memo.Item, error) {
	id, err := a.CurrentIdentity(ctx)
	if err != nil {
		return memo.Item{}, err
	}
	atts, err := a.ResolveAttachments(ctx, p.Attachments("attachments"))
	if err != nil {
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrCreateFailed, err)
	}
	status := strings.TrimSpace(p.String("status"))
	reviewStatus := status
	if status == "" {
		status = DefaultStatus
		reviewStatus = DefaultReviewStatus
	}
	it := memo.Item{
		Subject:          p.String("subject"),
		ReferenceNumber:  p.String("referenceNumber"),
		Status:           status,
		ReviewStatus:     reviewStatus,
		Owner:            id.ID,
		Description:      p.String("description"),
		DivisionInCharge: p.String("divisionInCharge"),
		AssignedTo:       p.String("assignedTo"),
		Priority:         p.String("priority"),
		Date:             p.String("date"),
		Attachments:      atts,
	}
	return a.CreateItem(ctx, it)
}

// AppendReview adds r to the end of the memo's reviews. The reviewer is
// always the current user.
func (a *Adapter) AppendReview(ctx context.Context, id string, r memo.Review) (memo.Item, error) {
	who, err := a.CurrentIdentity(ctx)
	if err != nil {
		return memo.Item{}, err
	}
	r.Reviewer = who.ID
	if err := r.Validate(); err != nil {
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrInvalidItem, err)
	}
	return a.update(ctx, id, func(it *memo.Item) error {
		it.Reviews = append(it.Reviews, r)
		return nil
	})
}

// Patch is a partial update. Nil fields are left alone.
type Patch struct {
	ID               *string           `json:"id,omitempty"`
	Owner            *string           `json:"owner,omitempty"`
	CreatedAt        *time.Time        `json:"createdAt,omitempty"`
	Subject          *string           `json:"subject,omitempty"`
	Description      *string           `json:"description,omitempty"`
	ReferenceNumber  *string           `json:"referenceNumber,omitempty"`
	Status           *string           `json:"status,omitempty"`
	ReviewStatus     *string           `json:"reviewStatus,omitempty"`
	DivisionInCharge *string           `json:"divisionInCharge,omitempty"`
	AssignedTo       *string           `json:"assignedTo,omitempty"`
	Priority         *string           `json:"priority,omitempty"`
	Date             *string           `json:"date,omitempty"`
	Attachments      []memo.Attachment `json:"attachments,omitempty"`
}

// UpdateItem applies p on behalf of the owner. Identity fields and a set
// reference number cannot change.
func (a *Adapter) UpdateItem(ctx context.Context, id string, p Patch) (memo.Item, error) {
	who, err := a.CurrentIdentity(ctx)
	if err != nil {
		return memo.Item{}, err
	}
	return a.update(ctx, id, func(it *memo.Item) error {
		if it.Owner != who.ID {
			a.logger.Warn("update rejected", "id", id, "owner", it.Owner, "user", who.ID)
			return fmt.Errorf("%s: %w", id, core.ErrForbidden)
		}
		if p.ID != nil && *p.ID != it.ID {
			return fmt.Errorf("id: %w", core.ErrReadOnlyField)
		}
		if p.Owner != nil && *p.Owner != it.Owner {
			return fmt.Errorf("owner: %w", core.ErrReadOnlyField)
		}
		if p.CreatedAt != nil && (it.CreatedAt == nil || !p.CreatedAt.Equal(*it.CreatedAt)) {
			return fmt.Errorf("createdAt: %w", core.ErrReadOnlyField)
		}
		if p.ReferenceNumber != nil && *p.ReferenceNumber != it.ReferenceNumber {
			if it.ReferenceNumber != "" {
				return fmt.Errorf("referenceNumber: %w", core.ErrReadOnlyField)
			}
			it.ReferenceNumber = *p.ReferenceNumber
		}
		set(&it.Subject, p.Subject)
		set(&it.Status, p.Status)
		set(&it.ReviewStatus, p.ReviewStatus)
		set(&it.DivisionInCharge, p.DivisionInCharge)
		set(&it.AssignedTo, p.AssignedTo)
		set(&it.Priority, p.Priority)
		set(&it.Date, p.Date)
		if p.Description != nil {
			it.Description = *p.Description
			it.StylusComments = ""
		}
		if p.Attachments != nil {
			atts, err := a.ResolveAttachments(ctx, p.Attachments)
			if err != nil {
				return err
			}
			it.Attachments = atts
		}
		return it.Validate()
	})
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (a *Adapter) update(ctx context.Context, id string, mutate func(*memo.Item) error) (memo.Item, error) {
	doc, err := a.memos.Get(ctx, id)
	if err != nil {
		return memo.Item{}, fmt.Errorf("%w: %w", core.ErrFetchFailed, err)
	}
	it := toItem(doc)
	if err := mutate(&it); err != nil {
		return memo.Item{}, err
	}
	doc.Content, doc.Data = fromItem(it)
	if err := a.memos.Save(ctx, doc); err != nil {
		return memo.Item{}, fmt.Errorf("save memo %s: %w", id, err)
	}
	a.logger.Debug("memo updated", "id", id)
	return toItem(doc), nil
}

// toItem fills the store-assigned fields. The body lives in the document
// content and falls back to stylus comments.
func toItem(d *typed.DocumentModel[memo.Item]) memo.Item {
	it := d.Data
	it.ID = d.ID
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt
		it.CreatedAt = &created
	}
	it.Description = d.Content
	if it.Description == "" {
		it.Description = it.StylusComments
	}
	return it
}

// fromItem splits an item into body and metadata. Store-assigned fields are
// never written as metadata.
func fromItem(it memo.Item) (string, memo.Item) {
	body := it.Description
	it.ID = ""
	it.CreatedAt = nil
	it.Description = ""
	return body, it
}
