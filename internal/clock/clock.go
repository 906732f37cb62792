// Package clock abstracts wall-clock reads so time-dependent logic
// (monthly quota rollover, payment references) is deterministic in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}
