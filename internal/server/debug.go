package server

import (
	"net/http"

	"github.com/aretw0/memodesk/internal/platform"
)

// DebugState is the body of GET /v1/debug/state.
type DebugState struct {
	App      platform.ComponentState `json:"app"`
	Profiles platform.ComponentState `json:"profiles"`
}

func (s *Server) debugState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DebugState{
		App:      platform.Describe(s.app),
		Profiles: platform.Describe(s.profiles),
	})
}
