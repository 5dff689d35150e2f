package platform

import (
	"github.com/aretw0/introspection"
)

// ComponentState is one component's snapshot, tagged with its type.
type ComponentState struct {
	Type  string `json:"type"`
	State any    `json:"state,omitempty"`
}

// AppState exposes the wired components for observability.
type AppState struct {
	Root    string         `json:"root"`
	Service ComponentState `json:"service"`
	Memos   ComponentState `json:"memos"`
	Users   ComponentState `json:"users"`
}

// Describe snapshots v when it is introspectable.
func Describe(v any) ComponentState {
	var s ComponentState
	if c, ok := v.(introspection.Component); ok {
		s.Type = c.ComponentType()
	}
	if i, ok := v.(introspection.Introspectable); ok {
		s.State = i.State()
	}
	return s
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	s := AppState{Service: Describe(a.Memos)}
	if a.Stores != nil {
		s.Root = a.Stores.Root
		s.Memos = Describe(a.Stores.Memos)
		s.Users = Describe(a.Stores.Users)
	}
	return s
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "app"
}

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
