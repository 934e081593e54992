package usecase

import (
	"time"

	"medical-center/internal/domain/entity"
)

// Clock is the clinic's wall clock. Dates and slot times are compared in the
// clinic's zone.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(now func() time.Time, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return Clock{now: now, loc: loc}
}

func (c Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the clinic's current calendar date as UTC midnight, the form date
// columns are stored in.
func (c Clock) Today() time.Time {
	y, m, d := c.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c Clock) TodayString() string {
	return c.Now().Format(entity.DateLayout)
}

func (c Clock) TimeString() string {
	return c.Now().Format(entity.TimeLayout)
}
