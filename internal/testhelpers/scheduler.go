package testhelpers

import (
	"github.com/myrjola/dvdcluedo/internal/timeline"
	"sync"
	"time"
)

// ManualScheduler is a timeline.Scheduler driven by Advance instead of the wall clock.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	at        time.Duration
	seq       int
	f         func()
	done      bool
}

func (t *manualTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{} //nolint:exhaustruct // starts at zero with nothing pending
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) timeline.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{scheduler: s, at: s.now + d, seq: s.seq, f: f, done: false}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in order. Callbacks scheduled by callbacks fire too
// when they fall within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()
	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		next.done = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
	}
}

// Pending is the number of callbacks waiting to fire.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	var next *manualTimer
	live := s.pending[:0]
	for _, t := range s.pending {
		if t.done {
			continue
		}
		live = append(live, t)
		if t.at > target {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	s.pending = live
	return next
}
