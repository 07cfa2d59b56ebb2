package validator

import "time"

// Clock abstracts "now" so that date-in-the-future checks (Patient's
// dateOfDeath, among others) are pure and testable rather than reaching for
// time.Now() directly from inside a validator.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock is a Clock that always returns the same instant, for tests
// that assert future/past behavior deterministically.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
