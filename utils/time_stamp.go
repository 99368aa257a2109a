package utils

import (
	"strings"
	"time"
)

// NowMillis returns the current time as milliseconds since Unix epoch.
// Uses monotonic-aware time internally but returns wall-clock millis
// so that timestamps are portable across processes.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts a millisecond Unix timestamp back to time.Time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

var tokenReplacer = strings.NewReplacer(":", "-", ".", "-")

// SessionToken derives a logging-session token from t: ISO 8601 in UTC with
// millisecond precision, with ':' and '.' replaced by '-' so the token is
// safe as a file-name component on every filesystem.
//
//	2026-08-30T14-07-02-153Z
func SessionToken(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return tokenReplacer.Replace(iso)
}
