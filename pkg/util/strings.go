package util

import (
    "strconv"
    "strings"
)

// NormalizeProductID canonicalizes product identifiers coming from feeds
// and query parameters: trimmed, lowercased, inner spaces collapsed to
// dashes.
func NormalizeProductID(s string) string {
    s = strings.ToLower(strings.TrimSpace(s))
    return strings.Join(strings.Fields(s), "-")
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}