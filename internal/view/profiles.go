package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/memodesk/internal/dataaccess"
)

// ProfileResolver looks up display profiles.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, userID string) (dataaccess.Profile, error)
	PlaceholderProfile(userID string) dataaccess.Profile
}

// ProfileCache memoizes resolved profiles for the session. Entries are never
// evicted. Failed lookups are not cached and yield the placeholder.
type ProfileCache struct {
	resolver ProfileResolver
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string]dataaccess.Profile
	lookups int
}

// NewProfileCache wraps resolver.
func NewProfileCache(resolver ProfileResolver, logger *slog.Logger) *ProfileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileCache{resolver: resolver, logger: logger, entries: map[string]dataaccess.Profile{}}
}

// Get returns the profile of userID, resolving it on first use.
func (c *ProfileCache) Get(ctx context.Context, userID string) dataaccess.Profile {
	c.mu.RLock()
	p, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok {
		return p
	}

	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()

	p, err := c.resolver.ResolveProfile(ctx, userID)
	if err != nil {
		c.logger.Debug("profile unavailable", "user", userID, "error", err)
		return c.resolver.PlaceholderProfile(userID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[userID]; ok {
		return existing
	}
	c.entries[userID] = p
	return p
}

// Len returns the number of cached profiles.
func (c *ProfileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookups returns how many times the resolver was called.
func (c *ProfileCache) Lookups() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookups
}

// ProfileCacheState is the introspection snapshot.
type ProfileCacheState struct {
	Cached  int `json:"cached"`
	Lookups int `json:"lookups"`
}

// State implements introspection.Introspectable.
func (c *ProfileCache) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ProfileCacheState{Cached: len(c.entries), Lookups: c.lookups}
}

// ComponentType implements introspection.Component.
func (c *ProfileCache) ComponentType() string {
	return "profile-cache"
}

var _ introspection.Introspectable = (*ProfileCache)(nil)
var _ introspection.Component = (*ProfileCache)(nil)
