package mock

import "time"

// Time is a clock that can be moved to a fixed point and keeps ticking from there.
type Time struct {
	currentStartTime time.Time
	updatedAt        time.Time
}

func NewTime() *Time {
	return &Time{
		currentStartTime: time.Now().UTC(),
		updatedAt:        time.Now(),
	}
}

func (t *Time) SetCurrentTime(currentTime time.Time) {
	t.currentStartTime = currentTime
	t.updatedAt = time.Now()
}

func (t *Time) Now() time.Time {
	return t.currentStartTime.Add(time.Since(t.updatedAt))
}

// Today formats the current mocked day as YYYY-MM-DD.
func (t *Time) Today() string {
	return t.Now().Format(time.DateOnly)
}
