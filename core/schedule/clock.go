package schedule

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Clock is a wall-clock time of day, in minutes since midnight.
type Clock int

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var ErrMalformedTime = errors.New("time must be in HH:MM 24-hour format")

// NewClock returns the Clock for hour:minute. It does not validate its input.
func NewClock(hour, minute int) Clock {
	return Clock(hour*minutesPerHour + minute)
}

// ClockOf returns the wall-clock time of t, truncated to the minute.
func ClockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// ParseClock parses a zero-padded 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, errors.Wrapf(ErrMalformedTime, "%q", s)
	}
	hour, ok1 := atoi2(s[0], s[1])
	minute, ok2 := atoi2(s[3], s[4])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return 0, errors.Wrapf(ErrMalformedTime, "%q", s)
	}
	return NewClock(hour, minute), nil
}

// MustParseClock is like ParseClock but panics on malformed input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func atoi2(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (c Clock) Hour() int   { return int(c) / minutesPerHour }
func (c Clock) Minute() int { return int(c) % minutesPerHour }

func (c Clock) IsValid() bool { return c >= 0 && c < minutesPerDay }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, errors.Errorf("clock out of range: %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := ParseClock(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
