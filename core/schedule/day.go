package schedule

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Day is the english name of a week day a session can be scheduled on.
type Day string

// Days
const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday" // never schedulable
)

// Days lists the schedulable days in week order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var ErrInvalidDay = errors.New("invalid day")

// DayOf returns the week day of t.
func DayOf(t time.Time) Day {
	return Day(t.Weekday().String())
}

// ParseDay parses a day name, ignoring case and surrounding whitespace.
// Sunday parses fine but is not valid for scheduling.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, d := range append(Days, Sunday) {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidDay, "%q", s)
}

// IsValid reports whether sessions can be scheduled on d.
func (d Day) IsValid() bool {
	return d.index() >= 0
}

func (d Day) index() int {
	for i, day := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

func (d Day) String() string { return string(d) }
