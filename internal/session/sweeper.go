package session

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically deletes expired session rows.
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a sweeper running every interval.
func NewSweeper(st Store, interval time.Duration) *Sweeper {
	return &Sweeper{store: st, interval: interval, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	log.Println("Starting session sweeper...")
	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Session sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce deletes every session that has expired by now.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now().UTC())
	if err != nil {
		log.Printf("Error sweeping expired sessions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Swept %d expired sessions.", n)
	}
}
