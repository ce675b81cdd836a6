package gtfsrt

import (
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/railtrack/journey"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

func testJourney() journey.Journey {
	at := func(h, m int) time.Time {
		return time.Date(2025, 5, 10, h, m, 0, 0, timeutil.ProviderZone)
	}
	return journey.Journey{
		Logo:       "FR",
		Number:     "9544",
		Provider:   journey.ProviderViaggiaTreno,
		Identifier: "S01700/9544/1746831600000",
		LastUpdate: at(10, 12),
		Delay:      5,
		Stops: []journey.Stop{
			{
				Name:                 "Roma Termini",
				DepDelay:             5,
				TheoreticalDeparture: at(10, 0),
				EffectiveDeparture:   at(10, 5),
				EffectiveArrival:     timeutil.Sentinel,
				RefTime:              at(10, 0),
			},
			{
				Name:                 "Firenze S.M.N.",
				Status:               journey.StatusCancelled,
				TheoreticalArrival:   at(11, 30),
				EffectiveArrival:     timeutil.Sentinel,
				EffectiveDeparture:   timeutil.Sentinel,
				RefTime:              at(11, 30),
			},
			{
				Name:               "Milano Centrale",
				ArrDelay:           5,
				TheoreticalArrival: at(13, 0),
				EffectiveArrival:   at(13, 5),
				EffectiveDeparture: timeutil.Sentinel,
				RefTime:            at(13, 0),
			},
		},
	}
}

func TestFeedMessage(t *testing.T) {
	j := testJourney()
	now := time.Date(2025, 5, 10, 10, 15, 0, 0, timeutil.ProviderZone)

	fm := FeedMessage(j, now)
	require.Len(t, fm.Entity, 1)
	assert.Equal(t, "2.0", fm.Header.GetGtfsRealtimeVersion())
	assert.Equal(t, uint64(now.Unix()), fm.Header.GetTimestamp())

	tu := fm.Entity[0].TripUpdate
	require.NotNil(t, tu)
	assert.Equal(t, j.Identifier, tu.Trip.GetTripId())
	assert.Equal(t, gtfsrtpb.TripDescriptor_SCHEDULED, tu.Trip.GetScheduleRelationship())
	assert.Equal(t, int32(5*60), tu.GetDelay())
	assert.Equal(t, uint64(j.LastUpdate.Unix()), tu.GetTimestamp())
	assert.Equal(t, "FR 9544", tu.Vehicle.GetLabel())

	require.Len(t, tu.StopTimeUpdate, 3)

	origin := tu.StopTimeUpdate[0]
	assert.Equal(t, uint32(1), origin.GetStopSequence())
	assert.Equal(t, "Roma Termini", origin.GetStopId())
	require.NotNil(t, origin.Departure)
	assert.Equal(t, j.Stops[0].EffectiveDeparture.Unix(), origin.Departure.GetTime())
	assert.Equal(t, int32(5*60), origin.Departure.GetDelay())
	assert.Nil(t, origin.Arrival, "sentinel arrival is omitted")

	skipped := tu.StopTimeUpdate[1]
	assert.Equal(t, gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED, skipped.GetScheduleRelationship())
	assert.Nil(t, skipped.Arrival)
	assert.Nil(t, skipped.Departure)

	dest := tu.StopTimeUpdate[2]
	require.NotNil(t, dest.Arrival)
	assert.Equal(t, j.Stops[2].EffectiveArrival.Unix(), dest.Arrival.GetTime())
	assert.Nil(t, dest.Departure)
}

func TestFeedMessageCancelledJourney(t *testing.T) {
	j := testJourney()
	j.Issue = journey.CancelledIssue
	j.Cancelled = true

	fm := FeedMessage(j, time.Now())
	tu := fm.Entity[0].TripUpdate
	assert.Equal(t, gtfsrtpb.TripDescriptor_CANCELED, tu.Trip.GetScheduleRelationship())
}

func TestMarshalRoundTrip(t *testing.T) {
	j := testJourney()
	now := time.Date(2025, 5, 10, 10, 15, 0, 0, timeutil.ProviderZone)

	b, err := Marshal(j, now)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	var fm gtfsrtpb.FeedMessage
	require.NoError(t, proto.Unmarshal(b, &fm))
	require.Len(t, fm.Entity, 1)
	assert.Equal(t, "trenitalia:9544", fm.Entity[0].GetId())
}
