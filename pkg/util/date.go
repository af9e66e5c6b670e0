package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
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
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignDays rounds the time range to UTC day boundaries so daily
// aggregations are stable regardless of the caller's clock.
func AlignDays(from, to time.Time) (time.Time, time.Time) {
    from = from.UTC().Truncate(24 * time.Hour)
    to = to.UTC().Truncate(24 * time.Hour)
    if to.Before(from) {
        to = from
    }
    return from, to
}

// No extra helpers here; use strconv where needed.