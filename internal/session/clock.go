package session

import "time"

// Clock lets tests drive session timing and idle reaping.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
