// Package gate decides whether a scheduled tracking invocation is allowed
// to capture and classify.
//
// The decision is a pure function of the clock, the work-hours
// configuration and the manual pause flag. It is re-evaluated fresh on
// every invocation; no transition history is kept. Idle detection is a
// separate check applied by the tracker only after gating passes.
package gate

import (
	"fmt"
	"time"
)

// State is the tracking gating state for one invocation.
type State string

const (
	StateActive          State = "active"
	StatePausedManual    State = "pausedManual"
	StateBeforeWorkHours State = "beforeWorkHours"
	StateAfterWorkHours  State = "afterWorkHours"
)

// WorkHours is the user's work-schedule window.
type WorkHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	WorkDays    map[time.Weekday]bool
}

func (w WorkHours) startMinutes() int { return w.StartHour*60 + w.StartMinute }
func (w WorkHours) endMinutes() int   { return w.EndHour*60 + w.EndMinute }

// Decision is the outcome of one gating evaluation.
type Decision struct {
	State   State
	Message string
}

// Permits reports whether capture may proceed.
func (d Decision) Permits() bool {
	return d.State == StateActive
}

// Evaluate computes the gating state for the given instant.
//
// On a non-work day the before/after distinction is not meaningful; the
// decision reports an outside-hours state with an "outside work days"
// message. The manual pause flag is only consulted inside the work window.
func Evaluate(now time.Time, hours WorkHours, paused bool) Decision {
	if !hours.WorkDays[now.Weekday()] {
		return Decision{State: StateAfterWorkHours, Message: "outside work days"}
	}

	current := now.Hour()*60 + now.Minute()
	if current < hours.startMinutes() {
		return Decision{
			State:   StateBeforeWorkHours,
			Message: fmt.Sprintf("before work hours (%02d:%02d)", hours.StartHour, hours.StartMinute),
		}
	}
	if current >= hours.endMinutes() {
		return Decision{
			State:   StateAfterWorkHours,
			Message: fmt.Sprintf("after work hours (%02d:%02d)", hours.EndHour, hours.EndMinute),
		}
	}

	if paused {
		return Decision{State: StatePausedManual, Message: "tracking paused (manual)"}
	}
	return Decision{State: StateActive, Message: "tracking active"}
}
