// Package debounce coalesces bursts of host activity into single
// delayed inspection requests.
package debounce

import "time"

// Timer is the host facility that delivers a single timer event after
// a delay.
type Timer interface {
	SetTimeout(d time.Duration) error
}

// Scheduler arms at most one outstanding timer, bounding any burst of
// qualifying events to one eventual fire. It is not safe for
// concurrent use; the owning event loop serializes access.
type Scheduler struct {
	timer     Timer
	reaction  time.Duration
	enabled   bool
	scheduled bool
}

// New returns an enabled Scheduler that arms timer with the given
// reaction delay.
func New(timer Timer, reaction time.Duration) *Scheduler {
	return &Scheduler{timer: timer, reaction: reaction, enabled: true}
}

// Arm schedules the timer unless one is already outstanding or the
// scheduler is disabled. It reports whether a timer was actually
// armed. A delivery failure leaves the scheduler unarmed.
func (s *Scheduler) Arm() bool {
	if !s.enabled || s.scheduled {
		return false
	}
	if err := s.timer.SetTimeout(s.reaction); err != nil {
		return false
	}
	s.scheduled = true
	return true
}

// Fired clears the outstanding flag. What the fire means is the
// caller's concern; the scheduler only guarantees single-shot
// delivery per arming.
func (s *Scheduler) Fired() {
	s.scheduled = false
}

// Scheduled reports whether a timer is outstanding.
func (s *Scheduler) Scheduled() bool {
	return s.scheduled
}

// SetEnabled turns arming on or off. There is no cancellation: a timer
// armed earlier still fires, and the caller must tolerate the stale
// fire.
func (s *Scheduler) SetEnabled(v bool) {
	s.enabled = v
}

// Enabled reports whether arming is allowed.
func (s *Scheduler) Enabled() bool {
	return s.enabled
}

// SetReaction updates the delay used for future arms.
func (s *Scheduler) SetReaction(d time.Duration) {
	s.reaction = d
}

// Reaction returns the configured delay.
func (s *Scheduler) Reaction() time.Duration {
	return s.reaction
}
