// Package gittime converts the timestamp formats found in git output.
//
// Blame output carries seconds since the epoch and a separate "+HHMM" zone. The resulting
// time.Time keeps that zone as a fixed offset so callers can display the commit's own
// offset instead of the local one.
package gittime

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidZone is returned when a zone is not exactly sign, two hour digits and two minute digits.
var ErrInvalidZone = errors.New("invalid zone, expected format +HHMM")

// ErrInvalidSeconds is returned when seconds since epoch is not a decimal integer.
var ErrInvalidSeconds = errors.New("invalid seconds since epoch")

// ParseZone converts "+HHMM" or "-HHMM" into an offset in seconds east of UTC.
func ParseZone(zone string) (offsetSeconds int, _ error) {
	if len(zone) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}
	sign := 1
	switch zone[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}
	for _, c := range zone[1:] {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidZone, zone)
		}
	}
	hours := int(zone[1]-'0')*10 + int(zone[2]-'0')
	minutes := int(zone[3]-'0')*10 + int(zone[4]-'0')
	return sign * (hours*60 + minutes) * 60, nil
}

// ParseUnix returns the instant described by seconds since epoch, placed in a fixed zone
// built from zone.
func ParseUnix(seconds string, zone string) (time.Time, error) {
	if !isDecimal(seconds) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSeconds, seconds)
	}
	sec, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidSeconds, seconds, err)
	}
	offset, err := ParseZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0).In(time.FixedZone(zone, offset)), nil
}

func isDecimal(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FormatBlame renders t the way classic git blame output does:
//	2018-11-27 21:55:36 +0100
// Hours of the offset are signed, minutes are always printed as absolute value.
func FormatBlame(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s %c%02d%02d", t.Format("2006-01-02 15:04:05"), sign, hours, minutes)
}
