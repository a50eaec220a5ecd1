package ports

import (
	"context"

	"github.com/mbradley/nowplayin/internal/domain"
)

// MediaProbe reads the local player. Neither method returns an error: an
// unreachable player reports false, an unparsable state reports ok == false.
type MediaProbe interface {
	IsSourceRunning(ctx context.Context) bool
	ReadCurrent(ctx context.Context) (track domain.Track, ok bool)
}
