package ports

import "time"

// Settings is read by the sync loop on every tick, so implementations must be
// safe for concurrent use and may change value between calls.
type Settings interface {
	PollInterval() time.Duration
	KeepOnPause() bool
}
