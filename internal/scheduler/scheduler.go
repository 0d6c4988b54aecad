// Package scheduler periodically re-triggers a full scan of the media
// root, since spec.md's Non-goals rule out incremental rescans but not
// rescans altogether. Grounded on the teacher's Scheduler ticker-loop
// shape (interval, stop channel, Start/Stop), generalized from a
// per-library due-check to a single callback fired on every tick.
package scheduler

import (
	"time"

	"surfmt/internal/logging"
)

// OnScanDue is invoked once per tick to re-scan the media root.
type OnScanDue func()

// Scheduler fires callback on a fixed interval until Stop is called.
type Scheduler struct {
	callback OnScanDue
	interval time.Duration
	stop     chan struct{}
}

// New creates a rescan scheduler with the given interval.
func New(interval time.Duration, cb OnScanDue) *Scheduler {
	return &Scheduler{
		callback: cb,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the ticker loop in the background.
func (s *Scheduler) Start() {
	go s.run()
	logging.Infof("scheduler: periodic rescan started (interval=%s)", s.interval)
}

// Stop ends the ticker loop.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.callback()
		case <-s.stop:
			logging.Infof("scheduler: stopped")
			return
		}
	}
}
