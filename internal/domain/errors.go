package domain

import "errors"

var (
	ErrSecretNotFound = errors.New("secret not found")

	ErrWorkspaceNotFound      = errors.New("workspace not found")
	ErrDuplicateWorkspace     = errors.New("workspace already added")
	ErrNoWorkspacesConfigured = errors.New("no workspaces configured")
	ErrProbeUnavailable       = errors.New("media source unavailable")
)
