package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWorkspaceID = errors.New("invalid workspace id")

// WorkspaceID is the Slack team id, e.g. T0123ABCD.
type WorkspaceID string

// Validate rejects ids that could not have come from Slack. Secret stores use
// the id as a path component, so anything beyond letters, digits, '-' and '_'
// is refused.
func (id WorkspaceID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidWorkspaceID)
	}
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidWorkspaceID, string(id))
		}
	}
	return nil
}

type Workspace struct {
	ID      WorkspaceID
	Name    string
	UserID  string
	AddedAt time.Time
}

// SecretKeyFor names the secret-store entry holding the workspace token.
func SecretKeyFor(id WorkspaceID) string {
	return "nowplayin/workspaces/" + string(id) + "/token"
}
