package dataaccess

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/memodesk/pkg/core"
	"github.com/aretw0/memodesk/pkg/typed"
)

// Placeholders used when a profile is incomplete or cannot be resolved.
const (
	UnknownUser    = "Unknown User"
	UnknownOfficer = "Unknown Officer"
)

// User is a record of the users collection, keyed by UserID.
type User struct {
	UserID               string `json:"userId"`
	Name                 string `json:"name"`
	Email                string `json:"email,omitempty"`
	Phone                string `json:"phone,omitempty"`
	Role                 string `json:"role,omitempty"`
	Verified             bool   `json:"verified"`
	ProfilePictureFileID string `json:"profilePictureFileId,omitempty"`
}

// Profile is the display form of a user.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// RegisterUser stores or replaces u.
func (a *Adapter) RegisterUser(ctx context.Context, u User) error {
	if a.users == nil {
		return errors.New("users collection not configured")
	}
	if u.UserID == "" {
		return core.ErrEmptyID
	}
	if u.Role == "" {
		u.Role = "Employee"
	}
	return a.users.Save(ctx, &typed.DocumentModel[User]{ID: u.UserID, Data: u})
}

// ResolveProfile looks up the display name and avatar of userID.
func (a *Adapter) ResolveProfile(ctx context.Context, userID string) (Profile, error) {
	if a.users == nil {
		return Profile{}, fmt.Errorf("%w: users collection not configured", core.ErrProfileResolutionFailed)
	}
	doc, err := a.users.Get(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s: %w", core.ErrProfileResolutionFailed, userID, err)
	}
	p := Profile{ID: userID, Name: doc.Data.Name}
	if p.Name == "" {
		p.Name = UnknownUser
	}
	p.AvatarURL = a.files.URLFor(doc.Data.ProfilePictureFileID)
	return p, nil
}

// PlaceholderProfile is shown when resolution fails.
func (a *Adapter) PlaceholderProfile(userID string) Profile {
	return Profile{ID: userID, Name: UnknownOfficer, AvatarURL: a.files.URLFor("")}
}
