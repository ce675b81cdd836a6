package journey

import (
	"time"

	"github.com/theoremus-urban-solutions/railtrack/provider"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

// adaptItalo maps a RicercaTrenoService document to journey fields plus
// ordered raw stop records. The raw sequence is the explicit origin record
// followed by the "stopped" and "not stopped" arrays in exactly that
// order: the concatenation encodes route order and must not be re-sorted.
// An empty document (IsEmpty or no schedule) yields an empty record slice.
func adaptItalo(doc *provider.ItaloStatus, ref time.Time) (journeyFields, []RawStopRecord) {
	var fields journeyFields
	if doc == nil || bool(doc.IsEmpty) || doc.TrainSchedule == nil {
		return fields, nil
	}
	sched := doc.TrainSchedule

	fields.logo = "ITALO"
	fields.number = sched.TrainNumber
	if lu := timeutil.ParseTimeOfDay(doc.LastUpdate, ref); !timeutil.IsSentinel(lu) {
		fields.lastUpdate = lu.UnixMilli()
	}
	fields.mainDelay = sched.Distruption.DelayAmount
	fields.direction = sched.Leg.TrainOrientation
	fields.issue = sched.Distruption.Warning

	raw := make([]provider.ItaloStop, 0, 1+len(sched.StazioniFerme)+len(sched.StazioniNonFerme))
	raw = append(raw, sched.StazionePartenza)
	raw = append(raw, sched.StazioniFerme...)
	raw = append(raw, sched.StazioniNonFerme...)

	records := make([]RawStopRecord, 0, len(raw))
	for _, s := range raw {
		records = append(records, RawStopRecord{
			Name:     capitalizeName(s.LocationDescription),
			Platform: platformOrDash(s.ActualArrivalPlatform),
			Status:   StatusRegular,
			// Italo labels its scheduled times "estimated"; they are the
			// theoretical times in this model.
			TheoreticalDeparture: timeutil.ParseTimeOfDay(s.EstimatedDepartureTime, ref),
			TheoreticalArrival:   timeutil.ParseTimeOfDay(s.EstimatedArrivalTime, ref),
			ActualDeparture:      timeutil.ParseTimeOfDay(s.ActualDepartureTime, ref),
			ActualArrival:        timeutil.ParseTimeOfDay(s.ActualArrivalTime, ref),
		})
	}
	return fields, records
}

func platformOrDash(p string) string {
	if p == "" {
		return "-"
	}
	return p
}
