package util

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid ISO-8601 timestamp")

// Timestamp is a parsed ISO-8601 value. Naive timestamps carry no UTC
// offset and are held in UTC without one being printed back out.
type Timestamp struct {
	Time  time.Time
	Naive bool
}

var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var timeOfDayLayouts = []string{
	"15:04:05Z07:00",
	"15:04:05",
	"15:04",
}

func AddTimeToDate(date time.Time, sourceTime time.Time) time.Time {
	newDateTime := time.Date(date.Year(), date.Month(), date.Day(), sourceTime.Hour(), sourceTime.Minute(), sourceTime.Second(), sourceTime.Nanosecond(), date.Location())

	return newDateTime
}

func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t}, nil
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t, Naive: true}, nil
		}
	}

	return Timestamp{}, ErrInvalidTimestamp
}

// ParseTimeOfDay parses a bare time, optionally with an offset, and combines
// it with the given service date.
func ParseTimeOfDay(value string, date time.Time) (Timestamp, error) {
	value = strings.TrimSpace(value)

	for i, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		if i == 0 {
			return Timestamp{Time: time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())}, nil
		}

		return Timestamp{Time: AddTimeToDate(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), t), Naive: true}, nil
	}

	return Timestamp{}, ErrInvalidTimestamp
}

// String renders the timestamp as ISO-8601 with microsecond precision when a
// fraction is present.
func (ts Timestamp) String() string {
	layout := "2006-01-02T15:04:05"
	if ts.Time.Nanosecond()/1000 != 0 {
		layout += ".000000"
	}
	if !ts.Naive {
		layout += "-07:00"
	}

	return ts.Time.Format(layout)
}

// Sub is the signed difference in whole seconds. Mixing naive and offset
// values compares the naive value as UTC.
func (ts Timestamp) Sub(other Timestamp) int {
	return int(ts.Time.Sub(other.Time).Seconds())
}

// CompactDate formats a timestamp string as YYYYMMDD. Unparseable values that
// still start with a YYYY-MM-DD date use that prefix; anything else gives the
// 00000000 placeholder.
func CompactDate(value string) string {
	if ts, err := ParseTimestamp(value); err == nil {
		return ts.Time.Format("20060102")
	}

	if len(value) >= 10 && value[4] == '-' {
		return strings.ReplaceAll(value[:10], "-", "")
	}

	return "00000000"
}
