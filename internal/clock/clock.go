package clock

import "time"

// Clock abstracts the wall clock so time-driven transitions can be
// tested with a fixed time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Mock always returns T.
type Mock struct {
	T time.Time
}

func (m Mock) Now() time.Time { return m.T }
