package journey

import (
	"time"

	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

// deriveOptions controls the provider-specific parts of the stop walk.
type deriveOptions struct {
	// finalDelayAuthoritative re-reads the running main delay from the
	// destination's own reported arrival delay once the run completes.
	// ViaggiaTreno reports that figure; Italo's main delay is supplied up
	// front and never changes during the walk.
	finalDelayAuthoritative bool
}

// shiftMinutes adds mainDelay minutes to a theoretical time, preserving
// the sentinel when the theoretical time itself is unknown.
func shiftMinutes(t time.Time, minutes int) time.Time {
	if timeutil.IsSentinel(t) {
		return timeutil.Sentinel
	}
	return t.Add(time.Duration(minutes) * time.Minute)
}

// delayMinutes computes effective minus theoretical in whole minutes,
// 0 when either side is the sentinel. Positive means late.
func delayMinutes(theoretical, effective time.Time) int {
	if timeutil.IsSentinel(theoretical) || timeutil.IsSentinel(effective) {
		return 0
	}
	return timeutil.MinutesBetween(theoretical, effective)
}

// effectiveOr returns the actual reported time when present, else the
// fallback.
func effectiveOr(actual, fallback time.Time) time.Time {
	if timeutil.IsSentinel(actual) {
		return fallback
	}
	return actual
}

// deriveStops runs the per-stop state machine over the ordered raw
// records. mainDelay is the journey-level delay threaded through the walk
// as an explicit accumulator; the (possibly updated) value is returned
// alongside the stops. The walk is inherently sequential: middle stops
// project missing times with the running delay, and the destination may
// rewrite it.
func deriveStops(records []RawStopRecord, now time.Time, mainDelay int, opts deriveOptions) ([]Stop, int, error) {
	if len(records) == 0 {
		return nil, mainDelay, ErrNoStops
	}

	stops := make([]Stop, 0, len(records))
	for i, rec := range records {
		last := len(records) - 1

		stop := Stop{
			Name:                 rec.Name,
			Platform:             NormalizePlatform(rec.Platform),
			Status:               rec.Status,
			TheoreticalDeparture: rec.TheoreticalDeparture,
			TheoreticalArrival:   rec.TheoreticalArrival,
			EffectiveDeparture:   effectiveOr(rec.ActualDeparture, rec.TheoreticalDeparture),
			EffectiveArrival:     effectiveOr(rec.ActualArrival, rec.TheoreticalArrival),
		}
		if i == 0 {
			stop.RefTime = rec.TheoreticalDeparture
		} else {
			stop.RefTime = rec.TheoreticalArrival
		}

		switch {
		case i == 0:
			// Origin: the train either has not left yet (delay unknown) or
			// it has, and the departure delay is measurable.
			if now.Before(rec.TheoreticalDeparture) {
				stop.IsCompleted = false
				stop.IsInStation = true
			} else {
				stop.IsCompleted = true
				stop.IsInStation = false
				stop.DepDelay = delayMinutes(rec.TheoreticalDeparture, stop.EffectiveDeparture)
			}

		case i == last:
			// Destination: without a reported actual arrival the best
			// estimate is the theoretical arrival shifted by the running
			// main delay.
			if timeutil.IsSentinel(rec.ActualArrival) {
				stop.EffectiveArrival = shiftMinutes(rec.TheoreticalArrival, mainDelay)
			}
			stop.ArrDelay = delayMinutes(rec.TheoreticalArrival, stop.EffectiveArrival)
			if now.Before(stop.EffectiveArrival) {
				stop.IsCompleted = false
				stop.IsInStation = false
			} else {
				stop.IsCompleted = true
				stop.IsInStation = true
				if opts.finalDelayAuthoritative {
					mainDelay = rec.FinalArrDelay
				}
			}

		default:
			// Middle stop: sentinel actuals fall back to the theoretical
			// time projected by the running main delay; reported actuals
			// are used verbatim.
			if timeutil.IsSentinel(rec.ActualArrival) {
				stop.EffectiveArrival = shiftMinutes(rec.TheoreticalArrival, mainDelay)
			}
			if timeutil.IsSentinel(rec.ActualDeparture) {
				stop.EffectiveDeparture = shiftMinutes(rec.TheoreticalDeparture, mainDelay)
			}
			stop.ArrDelay = delayMinutes(rec.TheoreticalArrival, stop.EffectiveArrival)
			stop.DepDelay = delayMinutes(rec.TheoreticalDeparture, stop.EffectiveDeparture)

			switch {
			case now.Before(stop.EffectiveArrival):
				stop.IsCompleted = false
				stop.IsInStation = false
			case now.Before(stop.EffectiveDeparture):
				// Between arrival and departure the train is stopped here.
				stop.IsCompleted = false
				stop.IsInStation = true
			default:
				stop.IsCompleted = true
				stop.IsInStation = true
			}
		}

		stops = append(stops, stop)
	}

	return stops, mainDelay, nil
}
