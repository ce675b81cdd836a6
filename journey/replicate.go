package journey

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

// Replicate re-anchors every stop's times-of-day onto target's calendar
// date, preserving day ordering across midnight crossings: each stop's
// five time fields replay against the previous stop's already-replayed
// ref time. Replication reads only hours and minutes, so replicating a
// replica equals replicating the base; it is never cumulative.
//
// For ViaggiaTreno journeys the timestamp-encoded poll identifier is
// rebuilt for the target date so future re-polls hit the right service
// day. An identifier that does not decompose is kept as-is and surfaced
// via ErrIdentifierNotReplicated: the returned journey is still valid,
// it just cannot poll live updates.
func Replicate(j Journey, target time.Time) (Journey, error) {
	if len(j.Stops) == 0 {
		return Journey{}, ErrNoStops
	}

	out := j
	out.Stops = make([]Stop, len(j.Stops))
	var prev *time.Time
	for i, s := range j.Stops {
		ns := s
		ns.TheoreticalDeparture = replayField(s.TheoreticalDeparture, prev, target)
		ns.TheoreticalArrival = replayField(s.TheoreticalArrival, prev, target)
		ns.EffectiveDeparture = replayField(s.EffectiveDeparture, prev, target)
		ns.EffectiveArrival = replayField(s.EffectiveArrival, prev, target)
		ns.RefTime = replayField(s.RefTime, prev, target)
		out.Stops[i] = ns

		ref := ns.RefTime
		prev = &ref
	}

	if j.Provider == ProviderViaggiaTreno {
		id, ok := replicateIdentifier(j.Identifier, target)
		if !ok {
			return out, fmt.Errorf("journey.Replicate: %w: %q", ErrIdentifierNotReplicated, j.Identifier)
		}
		out.Identifier = id
	}
	return out, nil
}

// replayField replays one time field, passing the no-data sentinel
// through untouched.
func replayField(t time.Time, prev *time.Time, target time.Time) time.Time {
	if timeutil.IsSentinel(t) {
		return timeutil.Sentinel
	}
	return timeutil.Replay(t, prev, target)
}

// replicateIdentifier swaps the trailing service-day millisecond
// timestamp of a "station/number/dateMillis" identifier for the target
// date's midnight. Any other shape fails the decomposition.
func replicateIdentifier(identifier string, target time.Time) (string, bool) {
	parts := strings.Split(identifier, "/")
	if len(parts) != 3 {
		return "", false
	}
	if _, err := strconv.ParseInt(parts[2], 10, 64); err != nil {
		return "", false
	}
	ms := timeutil.StartOfDayMillis(target)
	return parts[0] + "/" + parts[1] + "/" + strconv.FormatInt(ms, 10), true
}
