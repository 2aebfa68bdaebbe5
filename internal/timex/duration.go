// Package timex contains time helpers shared by config loaders and the API
// boundary.
package timex

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration so it can be read from JSON either as a
// string such as "30m" or as an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.New("invalid duration")
	}
}

// NaiveLayout renders timestamps without an offset, the way they are stored.
const NaiveLayout = "2006-01-02T15:04:05.000000"

const naiveSecondsLayout = "2006-01-02T15:04:05"

// FormatNaive renders t as an offset-less ISO 8601 timestamp. The fractional
// part is printed with microsecond precision, and omitted when it is zero.
func FormatNaive(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(naiveSecondsLayout)
	}
	return t.Format(NaiveLayout)
}

// Naive drops the location of t, keeping its UTC wall clock.
func Naive(t time.Time) time.Time {
	return StripZone(t.UTC())
}

// StripZone drops the location of t, keeping its wall clock as written.
// 12:00+03:00 becomes 12:00 in UTC.
func StripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ErrInvalidDateTime is returned by ParseNaive for malformed input.
var ErrInvalidDateTime = errors.New("invalid datetime format")

var dateTimeRe = regexp.MustCompile(
	`^(\d{4})-(\d{1,2})-(\d{1,2})[T ](\d{1,2}):(\d{1,2})` +
		`(?::(\d{1,2})(?:\.(\d{1,6})\d{0,6})?)?` +
		`(Z|[+-]\d{2}(?::?\d{2})?)?$`)

// ParseNaive accepts ISO 8601 date-times with a "T" or space separator,
// optional seconds and fraction, and an optional "Z" or numeric offset.
// The offset is validated and then dropped with StripZone.
func ParseNaive(s string) (time.Time, error) {
	m := dateTimeRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrInvalidDateTime
	}

	num := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}
	year, month, day := num(m[1]), num(m[2]), num(m[3])
	hour, minute, second := num(m[4]), num(m[5]), num(m[6])
	micro := 0
	if m[7] != "" {
		micro = num(m[7] + strings.Repeat("0", 6-len(m[7])))
	}

	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, ErrInvalidDateTime
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, micro*int(time.Microsecond), time.UTC)
	if t.Day() != day {
		// time.Date normalizes Feb 30 into March.
		return time.Time{}, ErrInvalidDateTime
	}

	if zone := m[8]; zone != "" && zone != "Z" {
		digits := strings.ReplaceAll(zone[1:], ":", "")
		if num(digits[:2]) > 23 || (len(digits) == 4 && num(digits[2:]) > 59) {
			return time.Time{}, ErrInvalidDateTime
		}
	}
	return t, nil
}
