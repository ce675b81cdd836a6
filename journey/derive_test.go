package journey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 5, 10, hour, min, 0, 0, timeutil.ProviderZone)
}

// threeStopRecords builds a Rome -> Florence -> Milan run with theoretical
// times only; actual times are filled per test.
func threeStopRecords() []RawStopRecord {
	return []RawStopRecord{
		{Name: "Roma Termini", TheoreticalDeparture: at(10, 0)},
		{Name: "Firenze S.M.N.", TheoreticalArrival: at(11, 0), TheoreticalDeparture: at(11, 5)},
		{Name: "Milano Centrale", TheoreticalArrival: at(12, 30)},
	}
}

func TestDeriveStopsEmptyInput(t *testing.T) {
	_, _, err := deriveStops(nil, at(10, 0), 0, deriveOptions{})
	assert.ErrorIs(t, err, ErrNoStops)
}

func TestDeriveOriginNotYetDeparted(t *testing.T) {
	stops, _, err := deriveStops(threeStopRecords(), at(9, 50), 0, deriveOptions{})
	require.NoError(t, err)

	origin := stops[0]
	assert.False(t, origin.IsCompleted)
	assert.True(t, origin.IsInStation)
	assert.Equal(t, 0, origin.DepDelay, "delay unknown before departure")
}

func TestDeriveOriginDepartedLate(t *testing.T) {
	records := threeStopRecords()
	records[0].ActualDeparture = at(10, 7)

	stops, _, err := deriveStops(records, at(10, 10), 0, deriveOptions{})
	require.NoError(t, err)

	origin := stops[0]
	assert.True(t, origin.IsCompleted)
	assert.False(t, origin.IsInStation)
	assert.Equal(t, 7, origin.DepDelay)
}

func TestDeriveMiddleStopInStation(t *testing.T) {
	stops, _, err := deriveStops(threeStopRecords(), at(11, 2), 0, deriveOptions{})
	require.NoError(t, err)

	mid := stops[1]
	assert.False(t, mid.IsCompleted)
	assert.True(t, mid.IsInStation)
}

func TestDeriveMiddleStopPhases(t *testing.T) {
	tests := []struct {
		name        string
		now         time.Time
		isCompleted bool
		isInStation bool
	}{
		{name: "before arrival", now: at(10, 30), isCompleted: false, isInStation: false},
		{name: "at arrival", now: at(11, 0), isCompleted: false, isInStation: true},
		{name: "at departure", now: at(11, 5), isCompleted: true, isInStation: true},
		{name: "after departure", now: at(12, 0), isCompleted: true, isInStation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops, _, err := deriveStops(threeStopRecords(), tt.now, 0, deriveOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.isCompleted, stops[1].IsCompleted)
			assert.Equal(t, tt.isInStation, stops[1].IsInStation)
		})
	}
}

func TestDeriveMiddleStopMainDelayFallback(t *testing.T) {
	// No actual times reported: effective times are theoretical shifted by
	// the running main delay, and the delays follow.
	stops, _, err := deriveStops(threeStopRecords(), at(10, 30), 12, deriveOptions{})
	require.NoError(t, err)

	mid := stops[1]
	assert.Equal(t, at(11, 12), mid.EffectiveArrival)
	assert.Equal(t, at(11, 17), mid.EffectiveDeparture)
	assert.Equal(t, 12, mid.ArrDelay)
	assert.Equal(t, 12, mid.DepDelay)
}

func TestDeriveMiddleStopReportedActualWinsOverMainDelay(t *testing.T) {
	records := threeStopRecords()
	records[1].ActualArrival = at(11, 3)

	stops, _, err := deriveStops(records, at(10, 30), 12, deriveOptions{})
	require.NoError(t, err)

	mid := stops[1]
	assert.Equal(t, at(11, 3), mid.EffectiveArrival, "reported actual used verbatim")
	assert.Equal(t, 3, mid.ArrDelay)
	assert.Equal(t, at(11, 17), mid.EffectiveDeparture, "unreported departure still projected")
}

func TestDeriveDestinationProjectedArrival(t *testing.T) {
	stops, _, err := deriveStops(threeStopRecords(), at(12, 0), 15, deriveOptions{})
	require.NoError(t, err)

	dest := stops[2]
	assert.Equal(t, at(12, 45), dest.EffectiveArrival)
	assert.Equal(t, 15, dest.ArrDelay)
	assert.False(t, dest.IsCompleted)
	assert.False(t, dest.IsInStation)
}

func TestDeriveDestinationReportedArrivalKept(t *testing.T) {
	records := threeStopRecords()
	records[2].ActualArrival = at(12, 33)

	stops, _, err := deriveStops(records, at(12, 0), 15, deriveOptions{})
	require.NoError(t, err)

	dest := stops[2]
	assert.Equal(t, at(12, 33), dest.EffectiveArrival, "reported arrival is not overridden by main delay")
	assert.Equal(t, 3, dest.ArrDelay)
}

func TestDeriveDestinationCompletedUpdatesMainDelay(t *testing.T) {
	records := threeStopRecords()
	records[2].ActualArrival = at(12, 40)
	records[2].FinalArrDelay = 10

	stops, mainDelay, err := deriveStops(records, at(12, 50), 4, deriveOptions{finalDelayAuthoritative: true})
	require.NoError(t, err)

	dest := stops[2]
	assert.True(t, dest.IsCompleted)
	assert.True(t, dest.IsInStation)
	assert.Equal(t, 10, mainDelay, "final reported delay is authoritative once complete")
}

func TestDeriveDestinationMainDelayFixedForItalo(t *testing.T) {
	records := threeStopRecords()
	records[2].ActualArrival = at(12, 40)
	records[2].FinalArrDelay = 99

	_, mainDelay, err := deriveStops(records, at(12, 50), 4, deriveOptions{finalDelayAuthoritative: false})
	require.NoError(t, err)
	assert.Equal(t, 4, mainDelay, "Italo's main delay never changes during the walk")
}

func TestDeriveEarlyRunningNegativeDelay(t *testing.T) {
	records := threeStopRecords()
	records[0].ActualDeparture = at(9, 56)

	stops, _, err := deriveStops(records, at(10, 10), 0, deriveOptions{})
	require.NoError(t, err)
	assert.Equal(t, -4, stops[0].DepDelay, "negative means early running")
}

func TestDeriveRefTimeConvention(t *testing.T) {
	stops, _, err := deriveStops(threeStopRecords(), at(9, 0), 0, deriveOptions{})
	require.NoError(t, err)

	assert.Equal(t, at(10, 0), stops[0].RefTime, "origin uses the departure instant")
	assert.Equal(t, at(11, 0), stops[1].RefTime)
	assert.Equal(t, at(12, 30), stops[2].RefTime)
	for i := 1; i < len(stops); i++ {
		assert.False(t, stops[i].RefTime.Before(stops[i-1].RefTime), "ref times non-decreasing")
	}
}

func TestDeriveCompletionIsMonotonic(t *testing.T) {
	records := threeStopRecords()
	records[0].ActualDeparture = at(10, 2)
	records[1].ActualArrival = at(11, 1)
	records[1].ActualDeparture = at(11, 6)
	records[2].ActualArrival = at(12, 31)

	for _, now := range []time.Time{at(9, 0), at(10, 30), at(11, 3), at(12, 0), at(13, 0)} {
		stops, _, err := deriveStops(records, now, 0, deriveOptions{})
		require.NoError(t, err)
		for i := 1; i < len(stops); i++ {
			if stops[i].IsCompleted {
				assert.True(t, stops[i-1].IsCompleted,
					"stop %d completed while stop %d is not (now=%v)", i, i-1, now)
			}
		}
	}
}
