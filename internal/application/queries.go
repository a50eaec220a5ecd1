package application

import (
	"time"

	"github.com/mbradley/nowplayin/internal/domain"
)

// Snapshot is the read model handed to the presentation layer after every change.
type Snapshot struct {
	SessionID         string           `json:"session_id,omitempty"`
	Running           bool             `json:"running"`
	Track             *domain.Track    `json:"track,omitempty"`
	LastApplied       *string          `json:"last_applied,omitempty"`
	Message           string           `json:"message"`
	SuppressExitClear bool             `json:"suppress_exit_clear"`
	Workspaces        []WorkspaceState `json:"workspaces"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type WorkspaceState struct {
	ID     domain.WorkspaceID `json:"id"`
	Name   string             `json:"name"`
	Error  string             `json:"error,omitempty"`
	Owned  bool               `json:"owned"`
	Edited bool               `json:"edited"`
}

func (s Snapshot) ErrorCount() int {
	count := 0
	for _, workspace := range s.Workspaces {
		if workspace.Error != "" {
			count++
		}
	}
	return count
}
