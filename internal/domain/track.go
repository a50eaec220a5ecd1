package domain

import "strings"

type PlayState string

const (
	PlayStatePlaying PlayState = "playing"
	PlayStatePaused  PlayState = "paused"
	PlayStateStopped PlayState = "stopped"
)

// ParsePlayState maps a player-reported state onto the three states the sync
// loop understands. Anything unrecognised is treated as stopped.
func ParsePlayState(raw string) PlayState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "playing", "play":
		return PlayStatePlaying
	case "paused", "pause":
		return PlayStatePaused
	default:
		return PlayStateStopped
	}
}

type Track struct {
	Name   string    `json:"name"`
	Artist string    `json:"artist"`
	State  PlayState `json:"state"`
}

// DisplayText is the status line shown for the track, empty when the track has no name.
func (t Track) DisplayText() string {
	if t.Name == "" {
		return ""
	}

	return t.Name + " - " + t.Artist
}

func (t Track) DesiredStatus(keepOnPause bool) string {
	switch t.State {
	case PlayStatePlaying:
		return t.DisplayText()
	case PlayStatePaused:
		if keepOnPause {
			return t.DisplayText()
		}
		return ""
	default:
		return ""
	}
}
