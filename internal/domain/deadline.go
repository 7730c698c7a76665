package domain

import (
	"fmt"
	"time"
)

// Deadline is a named reminder with an active window and its subscribers.
type Deadline struct {
	Name        string
	ActivateAt  time.Time     // local wall-clock time
	Duration    time.Duration // length of the active window, >= 0
	Frequency   string        // opaque, not interpreted
	Subscribers []int64       // chat IDs, in registration order
}

// New builds a validated deadline registered by a single chat.
func New(name string, activateAt time.Time, duration time.Duration, frequency string, chatID int64) (Deadline, error) {
	d := Deadline{
		Name:        name,
		ActivateAt:  activateAt,
		Duration:    duration,
		Frequency:   frequency,
		Subscribers: []int64{chatID},
	}
	if err := d.Validate(); err != nil {
		return Deadline{}, err
	}
	return d, nil
}

// Validate checks the invariants a record must hold before it reaches the store.
func (d Deadline) Validate() error {
	if d.Name == "" {
		return ErrEmptyName
	}
	if d.Duration < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeDuration, d.Duration)
	}
	return nil
}

// WindowEnd is the last instant at which the deadline is still due.
func (d Deadline) WindowEnd() time.Time {
	return d.ActivateAt.Add(d.Duration)
}

// DueAt reports whether now falls inside [ActivateAt, ActivateAt+Duration].
// Both ends are inclusive.
func (d Deadline) DueAt(now time.Time) bool {
	return !now.Before(d.ActivateAt) && !now.After(d.WindowEnd())
}

// Clone returns a copy that shares no memory with d.
func (d Deadline) Clone() Deadline {
	c := d
	if d.Subscribers != nil {
		c.Subscribers = make([]int64, len(d.Subscribers))
		copy(c.Subscribers, d.Subscribers)
	}
	return c
}

// ReminderText is the message delivered to each subscriber of a due deadline.
func ReminderText(name string) string {
	return fmt.Sprintf("Reminder: Deadline '%s' is due!", name)
}
