package timeutil

import (
	"strings"
	"time"
)

// ProviderZone is the fixed UTC+1 offset both upstream feeds use for their
// HH:mm strings, independent of the host locale.
var ProviderZone = time.FixedZone("UTC+1", 3600)

// Sentinel is the "no data reported" marker. Upstream feeds never use a
// missing-value encoding on the wire: ViaggiaTreno reports absent actual
// times as 0 milliseconds since epoch, Italo as "" or "01:00".
var Sentinel = time.Time{}

// IsSentinel reports whether t carries the "no data" marker.
func IsSentinel(t time.Time) bool {
	return t.IsZero() || t.Equal(time.Unix(0, 0))
}

// ParseTimeOfDay parses an HH:mm string in ProviderZone and maps it onto
// ref's calendar date. The wire values "" and "01:00" are Italo's own
// no-data convention and yield the sentinel, as does any unparsable input.
func ParseTimeOfDay(text string, ref time.Time) time.Time {
	s := strings.TrimSpace(text)
	if s == "" || s == "01:00" {
		return Sentinel
	}
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return Sentinel
	}
	y, m, d := ref.In(ProviderZone).Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, ProviderZone)
}

// FromUnixMillis converts a millisecond epoch timestamp to an instant in
// ProviderZone, truncated to the minute. 0 yields the sentinel.
func FromUnixMillis(ms int64) time.Time {
	if ms == 0 {
		return Sentinel
	}
	return time.UnixMilli(ms).In(ProviderZone).Truncate(time.Minute)
}

// MinutesBetween returns whole minutes from from to to, truncated.
// Positive means to is later than from.
func MinutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

// Replay maps source's hour and minute onto target's calendar date. When
// prev is non-nil the result is pushed forward one day at a time until it
// is strictly after *prev, which keeps overnight sequences ordered without
// per-stop day hints in the source data.
func Replay(source time.Time, prev *time.Time, target time.Time) time.Time {
	src := source.In(ProviderZone)
	y, m, d := target.In(ProviderZone).Date()
	cur := time.Date(y, m, d, src.Hour(), src.Minute(), 0, 0, ProviderZone)
	if prev == nil {
		return cur
	}
	for !cur.After(*prev) {
		cur = cur.AddDate(0, 0, 1)
	}
	return cur
}

// StartOfDayMillis returns the millisecond epoch of target's midnight in
// ProviderZone. Poll identifiers encode their date this way.
func StartOfDayMillis(target time.Time) int64 {
	y, m, d := target.In(ProviderZone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ProviderZone).UnixMilli()
}
