// Package wallclock handles same-day wall-clock strings ("HH:MM" or "HH:MM:SS")
// used by visit start and end times.
package wallclock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("malformed wall-clock time")

type clock struct {
	h, m, s int
}

func parse(s string) (clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return clock{}, fmt.Errorf("parse %q: %w", s, ErrMalformed)
	}

	vals := make([]int, 3)
	limits := []int{23, 59, 59}
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return clock{}, fmt.Errorf("parse %q: %w", s, ErrMalformed)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return clock{}, fmt.Errorf("parse %q: %w", s, ErrMalformed)
		}
		vals[i] = n
	}

	return clock{h: vals[0], m: vals[1], s: vals[2]}, nil
}

// ParseTime returns the hour and minute of s. Seconds are accepted but ignored.
func ParseTime(s string) (h, m int, err error) {
	c, err := parse(s)
	if err != nil {
		return 0, 0, err
	}
	return c.h, c.m, nil
}

// ToSeconds converts s to seconds since midnight.
func ToSeconds(s string) (int, error) {
	c, err := parse(s)
	if err != nil {
		return 0, err
	}
	return c.h*3600 + c.m*60 + c.s, nil
}

// NormalizeHMS returns s as zero-padded HH:MM:SS. HH:MM input gets ":00".
func NormalizeHMS(s string) (string, error) {
	c, err := parse(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d:%02d", c.h, c.m, c.s), nil
}

// Minutes returns end minus start in whole minutes. The result is negative
// when end precedes start; callers reject that before using it.
func Minutes(start, end string) (int, error) {
	s, err := ToSeconds(start)
	if err != nil {
		return 0, err
	}
	e, err := ToSeconds(end)
	if err != nil {
		return 0, err
	}
	return (e - s) / 60, nil
}

// Duration renders the span between start and end as a display label.
// Malformed input yields an empty label.
func Duration(start, end string) string {
	mins, err := Minutes(start, end)
	if err != nil {
		return ""
	}
	return FormatMinutes(mins)
}

// FormatMinutes renders "45 phút" below one hour and "1h30m" / "2h" above.
// Negative spans are rendered as-is, not clamped.
func FormatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%d phút", mins)
	}

	h, m := mins/60, mins%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
