package util

import (
    "strconv"
    "time"
)

// ISOLayout renders UTC times with microseconds and an explicit +00:00 offset.
const ISOLayout = "2006-01-02T15:04:05.000000-07:00"

// DayLayout is the calendar-day format used by daily price feeds.
const DayLayout = "2006-01-02"

// ISOTimestamp formats t in UTC using ISOLayout.
func ISOTimestamp(t time.Time) string {
    return t.UTC().Format(ISOLayout)
}

// ParseTime tries RFC3339, RFC3339Nano, calendar days and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(DayLayout, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0).UTC(), true
    }
    return time.Time{}, false
}
