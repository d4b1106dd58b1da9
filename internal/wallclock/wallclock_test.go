package wallclock

import (
	"errors"
	"testing"
)

func TestToSecondsRoundTrip(t *testing.T) {
	hms, err := NormalizeHMS("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hms != "09:30:00" {
		t.Fatalf("normalized = %q, want 09:30:00", hms)
	}

	secs, err := ToSeconds(hms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secs != 9*3600+30*60 {
		t.Fatalf("seconds = %d, want %d", secs, 9*3600+30*60)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		h, m int
	}{
		{"08:05", 8, 5},
		{"23:59:59", 23, 59},
		{"7:3", 7, 3},
	}

	for _, tt := range tests {
		h, m, err := ParseTime(tt.in)
		if err != nil {
			t.Fatalf("ParseTime(%q): unexpected error: %v", tt.in, err)
		}
		if h != tt.h || m != tt.m {
			t.Fatalf("ParseTime(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.h, tt.m)
		}
	}
}

func TestParseTimeRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "10:60", "ab:cd", "10:00:00:00", "100:00"} {
		if _, _, err := ParseTime(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("ParseTime(%q) err = %v, want ErrMalformed", in, err)
		}
	}
}

func TestNormalizeHMSKeepsSeconds(t *testing.T) {
	got, err := NormalizeHMS("8:5:7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "08:05:07" {
		t.Fatalf("got %q, want 08:05:07", got)
	}
}

func TestMinutesMayBeNegative(t *testing.T) {
	got, err := Minutes("10:00", "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -30 {
		t.Fatalf("minutes = %d, want -30", got)
	}
}

func TestDurationLabels(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"08:00", "08:45", "45 phút"},
		{"08:00", "09:30", "1h30m"},
		{"08:00:00", "10:00:00", "2h"},
		{"10:00", "09:30", "-30 phút"},
		{"bad", "09:30", ""},
	}

	for _, tt := range tests {
		if got := Duration(tt.start, tt.end); got != tt.want {
			t.Fatalf("Duration(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
