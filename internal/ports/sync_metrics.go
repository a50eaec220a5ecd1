package ports

import "time"

type SyncMetrics interface {
	ObserveTick()
	ObservePush(op string, outcome string)
	ObserveFanOut(duration time.Duration)
	SetRunning(running bool)
}

type NopSyncMetrics struct{}

func (NopSyncMetrics) ObserveTick() {}
func (NopSyncMetrics) ObservePush(string, string) {}
func (NopSyncMetrics) ObserveFanOut(time.Duration) {}
func (NopSyncMetrics) SetRunning(bool) {}
