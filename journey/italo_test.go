package journey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/railtrack/provider"
)

const italoFixture = `{
	"IsEmpty": false,
	"LastUpdate": "10:12",
	"TrainSchedule": {
		"TrainNumber": "9951",
		"Distruption": {"DelayAmount": 5, "Warning": ""},
		"Leg": {"TrainOrientation": "Nord"},
		"StazionePartenza": {
			"LocationDescription": "ROMA TERMINI",
			"ActualArrivalPlatform": "-",
			"EstimatedDepartureTime": "10:00",
			"EstimatedArrivalTime": "",
			"ActualDepartureTime": "10:05",
			"ActualArrivalTime": ""
		},
		"StazioniFerme": [
			{
				"LocationDescription": "FIRENZE S.M.N.",
				"ActualArrivalPlatform": "IX",
				"EstimatedDepartureTime": "11:05",
				"EstimatedArrivalTime": "11:00",
				"ActualDepartureTime": "01:00",
				"ActualArrivalTime": "01:00"
			}
		],
		"StazioniNonFerme": [
			{
				"LocationDescription": "MILANO CENTRALE",
				"ActualArrivalPlatform": "",
				"EstimatedDepartureTime": "",
				"EstimatedArrivalTime": "12:30",
				"ActualDepartureTime": "",
				"ActualArrivalTime": ""
			}
		]
	}
}`

func decodeItalo(t *testing.T, payload string) *provider.ItaloStatus {
	t.Helper()
	var doc provider.ItaloStatus
	require.NoError(t, json.Unmarshal([]byte(payload), &doc))
	return &doc
}

func TestDeriveItaloJourney(t *testing.T) {
	doc := decodeItalo(t, italoFixture)
	now := at(10, 30)

	j, ok := DeriveItaloJourney(doc, now, nil)
	require.True(t, ok)

	assert.Equal(t, "ITALO", j.Logo)
	assert.Equal(t, "9951", j.Number)
	assert.Equal(t, ProviderItalo, j.Provider)
	assert.Equal(t, "9951", j.Identifier, "the train number doubles as the poll identifier")
	assert.Equal(t, 5, j.Delay)
	assert.Equal(t, "Nord", j.Direction)
	require.Len(t, j.Stops, 3)

	// Origin record, then "stopped", then "not stopped", order preserved.
	assert.Equal(t, "Roma Termini", j.Stops[0].Name)
	assert.Equal(t, "Firenze S.M.N.", j.Stops[1].Name)
	assert.Equal(t, "Milano Centrale", j.Stops[2].Name)

	origin := j.Origin()
	assert.True(t, origin.IsCompleted)
	assert.Equal(t, 5, origin.DepDelay)

	mid := j.Stops[1]
	assert.Equal(t, "9", mid.Platform)
	// "01:00" is the wire's no-data value, so the actuals are sentinels
	// and the effective times project the main delay.
	assert.Equal(t, at(11, 5), mid.EffectiveArrival)
	assert.Equal(t, at(11, 10), mid.EffectiveDeparture)
}

func TestDeriveItaloJourneyEmpty(t *testing.T) {
	_, ok := DeriveItaloJourney(decodeItalo(t, `{"IsEmpty": true}`), at(10, 0), nil)
	assert.False(t, ok)

	_, ok = DeriveItaloJourney(decodeItalo(t, `{"IsEmpty": false}`), at(10, 0), nil)
	assert.False(t, ok, "missing TrainSchedule is an empty result, not an error")

	// Some Italo backends answer with 0/1 instead of booleans; that must
	// still decode as a routine empty result.
	_, ok = DeriveItaloJourney(decodeItalo(t, `{"IsEmpty": 1}`), at(10, 0), nil)
	assert.False(t, ok)

	_, ok = DeriveItaloJourney(nil, at(10, 0), nil)
	assert.False(t, ok)
}

func TestDeriveItaloJourneyMainDelayNeverRewritten(t *testing.T) {
	doc := decodeItalo(t, italoFixture)

	// Well past the destination: the run is complete, but Italo's main
	// delay was supplied up front and must survive the walk.
	j, ok := DeriveItaloJourney(doc, at(14, 0), nil)
	require.True(t, ok)
	assert.Equal(t, 5, j.Delay)
	assert.True(t, j.Destination().IsCompleted)
}
