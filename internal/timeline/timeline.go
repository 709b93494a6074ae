// Package timeline runs the cancellable timed sequences of playback: subtitles and the delayed loading indicator.
package timeline

import (
	"github.com/myrjola/dvdcluedo/internal/models"
	"sync"
	"time"
)

// Timer is a pending callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timers.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// scale divides d by speed so that a faster game shortens every wait.
func scale(d time.Duration, speed float64) time.Duration {
	if speed <= 0 {
		return d
	}
	return time.Duration(float64(d) / speed)
}

// Subtitles plays one subtitle track at a time. Starting a new track or stopping cancels the running one.
//
// Each line clears the text, waits its start delay, shows its text and waits its duration. When the track is
// exhausted the text is cleared.
type Subtitles struct {
	scheduler Scheduler
	show      func(text string)

	mu         sync.Mutex
	generation uint64
	timer      Timer
}

func NewSubtitles(scheduler Scheduler, show func(text string)) *Subtitles {
	return &Subtitles{ //nolint:exhaustruct // zero generation and no timer
		scheduler: scheduler,
		show:      show,
	}
}

// Start cancels the running track and plays lines from the first line.
func (s *Subtitles) Start(lines []models.SubtitleLine, speed float64) {
	s.mu.Lock()
	s.cancelLocked()
	generation := s.generation
	s.mu.Unlock()
	s.step(generation, lines, 0, speed)
}

// Stop cancels the running track without clearing the text.
func (s *Subtitles) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Subtitles) cancelLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// current reports whether generation is still the running track.
func (s *Subtitles) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}

func (s *Subtitles) schedule(generation uint64, d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return
	}
	s.timer = s.scheduler.AfterFunc(d, func() {
		if s.current(generation) {
			f()
		}
	})
}

func (s *Subtitles) step(generation uint64, lines []models.SubtitleLine, index int, speed float64) {
	s.show("")
	if index >= len(lines) {
		return
	}
	line := lines[index]
	s.schedule(generation, scale(line.StartDelay, speed), func() {
		s.show(line.Text)
		s.schedule(generation, scale(line.Duration, speed), func() {
			s.step(generation, lines, index+1, speed)
		})
	})
}

// Delay is a one-shot cancellable callback, used for the loading indicator.
type Delay struct {
	scheduler Scheduler

	mu         sync.Mutex
	generation uint64
	timer      Timer
}

func NewDelay(scheduler Scheduler) *Delay {
	return &Delay{scheduler: scheduler} //nolint:exhaustruct // nothing armed yet
}

// Arm cancels any pending callback and runs f after d divided by speed.
func (d *Delay) Arm(after time.Duration, speed float64, f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	generation := d.generation
	d.timer = d.scheduler.AfterFunc(scale(after, speed), func() {
		d.mu.Lock()
		fire := d.generation == generation
		if fire {
			d.timer = nil
		}
		d.mu.Unlock()
		if fire {
			f()
		}
	})
}

// Cancel stops the pending callback and reports whether one was pending.
func (d *Delay) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	d.cancelLocked()
	return pending
}

func (d *Delay) cancelLocked() {
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
