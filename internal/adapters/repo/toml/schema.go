package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version    int               `toml:"version"`
	Workspaces []workspaceSchema `toml:"workspaces"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported workspaces schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type workspaceSchema struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	UserID  string `toml:"user_id,omitempty"`
	AddedAt string `toml:"added_at,omitempty"`
}
