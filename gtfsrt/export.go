package gtfsrt

import (
	"fmt"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/railtrack/journey"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

func ptr[T any](v T) *T { return &v }

// FeedMessage renders one journey as a GTFS-RT feed with a single
// TripUpdate entity. Effective times become stop time events with delay
// seconds; stops with no usable time are emitted with sequence only.
func FeedMessage(j journey.Journey, now time.Time) *gtfsrtpb.FeedMessage {
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: ptr("2.0"),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           ptr(uint64(now.Unix())),
		},
	}

	update := &gtfsrtpb.TripUpdate{
		Trip: &gtfsrtpb.TripDescriptor{
			TripId: ptr(j.Identifier),
		},
		Vehicle: &gtfsrtpb.VehicleDescriptor{
			Label: ptr(j.Logo + " " + j.Number),
		},
		Delay: ptr(int32(j.Delay * 60)),
	}
	if j.Cancelled {
		update.Trip.ScheduleRelationship = gtfsrtpb.TripDescriptor_CANCELED.Enum()
	} else {
		update.Trip.ScheduleRelationship = gtfsrtpb.TripDescriptor_SCHEDULED.Enum()
	}
	if !j.LastUpdate.IsZero() {
		update.Timestamp = ptr(uint64(j.LastUpdate.Unix()))
	}

	for i, s := range j.Stops {
		update.StopTimeUpdate = append(update.StopTimeUpdate, stopTimeUpdate(i, s))
	}

	fm.Entity = []*gtfsrtpb.FeedEntity{{
		Id:         ptr(string(j.Provider) + ":" + j.Number),
		TripUpdate: update,
	}}
	return fm
}

func stopTimeUpdate(i int, s journey.Stop) *gtfsrtpb.TripUpdate_StopTimeUpdate {
	stu := &gtfsrtpb.TripUpdate_StopTimeUpdate{
		StopSequence: ptr(uint32(i + 1)),
		StopId:       ptr(s.Name),
	}
	if s.Status == journey.StatusCancelled {
		stu.ScheduleRelationship = gtfsrtpb.TripUpdate_StopTimeUpdate_SKIPPED.Enum()
	} else {
		stu.ScheduleRelationship = gtfsrtpb.TripUpdate_StopTimeUpdate_SCHEDULED.Enum()
	}
	if !timeutil.IsSentinel(s.EffectiveArrival) {
		stu.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{
			Time:  ptr(s.EffectiveArrival.Unix()),
			Delay: ptr(int32(s.ArrDelay * 60)),
		}
	}
	if !timeutil.IsSentinel(s.EffectiveDeparture) {
		stu.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{
			Time:  ptr(s.EffectiveDeparture.Unix()),
			Delay: ptr(int32(s.DepDelay * 60)),
		}
	}
	return stu
}

// Marshal renders the journey as binary GTFS-RT protobuf.
func Marshal(j journey.Journey, now time.Time) ([]byte, error) {
	b, err := proto.Marshal(FeedMessage(j, now))
	if err != nil {
		return nil, fmt.Errorf("gtfsrt.Marshal: %w", err)
	}
	return b, nil
}
