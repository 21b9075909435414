package session

import (
	"context"
	"time"
)

// drive ticks the session every interval until ctx is cancelled. The timer is
// re-armed only after a tick returns, so a slow generation delays the next one
// instead of overlapping it.
func (s *Session) drive(ctx context.Context, interval time.Duration) {
	defer s.drivers.Done()
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if _, err := s.Tick(); err != nil {
			s.logger.Error("tick failed, stopping", "err", err)
			if ctx.Err() == nil {
				s.Stop()
			}
			return
		}
		timer.Reset(interval)
	}
}
