package codec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInternetDateTime is wrapped by every ParseInternetDateTime failure.
var ErrInternetDateTime = errors.New("invalid internet date-time")

const (
	internetBaseLayout = "20060102T150405"
	// InternetUTCLayout formats naive (UTC) values.
	InternetUTCLayout = "2006-01-02T15:04:05.000000Z"
)

// ParseInternetDateTime parses RFC 3339-like text and returns the instant in
// UTC. Separators are optional: "2013-04-30T12:54:23+03:22",
// "20130430T125423+0322" and "2015-05-12T10:33:34Z" are all accepted. A
// trailing Z means UTC, a trailing +HHMM or -HHMM is an explicit offset and no
// suffix means UTC. Fractional seconds may follow the seconds with '.' or ','.
func ParseInternetDateTime(s string) (time.Time, error) {
	raw := s
	s = strings.ReplaceAll(strings.TrimSpace(s), ":", "")

	var offset time.Duration
	switch {
	case strings.HasSuffix(s, "Z"), strings.HasSuffix(s, "z"):
		s = s[:len(s)-1]
	case hasNumericOffset(s):
		n := len(s)
		hh := atoi2(s[n-4 : n-2])
		mm := atoi2(s[n-2:])
		if hh > 23 || mm > 59 {
			return time.Time{}, fmt.Errorf("%w %q: offset out of range", ErrInternetDateTime, raw)
		}
		offset = time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
		if s[n-5] == '-' {
			offset = -offset
		}
		s = s[:n-5]
	}
	s = strings.ReplaceAll(s, "-", "")

	base, frac := s, ""
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		base, frac = s[:i], s[i+1:]
		if frac == "" || !allDigits(frac) {
			return time.Time{}, fmt.Errorf("%w %q: bad fractional seconds", ErrInternetDateTime, raw)
		}
	}
	if len(base) == len(internetBaseLayout) && (base[8] == 't' || base[8] == ' ') {
		base = base[:8] + "T" + base[9:]
	}
	t, err := time.Parse(internetBaseLayout, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInternetDateTime, raw, err)
	}
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		ns := 0
		for i := 0; i < 9; i++ {
			ns *= 10
			if i < len(frac) {
				ns += int(frac[i] - '0')
			}
		}
		t = t.Add(time.Duration(ns))
	}
	return t.Add(-offset).UTC(), nil
}

// FormatInternetDateTime renders t. Values in UTC are naive and carry a Z
// suffix with microseconds; other locations use offset notation (+03:22) with
// microseconds only when they are non-zero.
func FormatInternetDateTime(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format(InternetUTCLayout)
	}
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	return t.Format(layout + "-07:00")
}

// hasNumericOffset reports whether s ends in [+-]HHMM that follows the time
// part (a digit after a 'T'), which tells it apart from a date's dashes.
func hasNumericOffset(s string) bool {
	n := len(s)
	if n < 6 {
		return false
	}
	if s[n-5] != '+' && s[n-5] != '-' {
		return false
	}
	if !allDigits(s[n-4:]) || s[n-6] < '0' || s[n-6] > '9' {
		return false
	}
	return strings.ContainsAny(s[:n-5], "Tt ")
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func atoi2(s string) int { return int(s[0]-'0')*10 + int(s[1]-'0') }
