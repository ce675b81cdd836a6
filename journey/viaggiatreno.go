package journey

import (
	"strings"
	"unicode"

	"github.com/theoremus-urban-solutions/railtrack/provider"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

// journeyFields are the top-level values an adapter extracts alongside the
// raw stop records.
type journeyFields struct {
	logo       string
	number     string
	lastUpdate int64 // millisecond epoch; 0 when the provider sends none
	mainDelay  int
	direction  string
	issue      string
}

// adaptViaggiaTreno maps an andamentoTreno document to journey fields plus
// ordered raw stop records. An empty fermate list yields an empty record
// slice: the train was not found for the requested identifier, which is a
// "try again later" outcome, not an error.
func adaptViaggiaTreno(doc *provider.TrainStatus) (journeyFields, []RawStopRecord) {
	var fields journeyFields
	if doc == nil {
		return fields, nil
	}

	// compNumeroTreno is "<logo> <number>", e.g. "FR 9628".
	if parts := strings.Fields(doc.CompNumeroTreno); len(parts) >= 2 {
		fields.logo = parts[0]
		fields.number = parts[1]
	} else {
		fields.number = strings.TrimSpace(doc.CompNumeroTreno)
	}
	fields.lastUpdate = doc.UltimoRilev
	fields.mainDelay = doc.Ritardo
	fields.issue = doc.SubTitle
	if len(doc.CompOrientamento) > 0 && doc.CompOrientamento[0] != "--" {
		fields.direction = doc.CompOrientamento[0]
	}

	records := make([]RawStopRecord, 0, len(doc.Fermate))
	for _, f := range doc.Fermate {
		records = append(records, RawStopRecord{
			Name:                 capitalizeName(f.Stazione),
			Platform:             pickPlatform(f),
			Status:               StopStatus(f.ActualFermataType),
			TheoreticalDeparture: timeutil.FromUnixMillis(f.PartenzaTeorica),
			TheoreticalArrival:   timeutil.FromUnixMillis(f.ArrivoTeorico),
			ActualDeparture:      timeutil.FromUnixMillis(f.PartenzaReale),
			ActualArrival:        timeutil.FromUnixMillis(f.ArrivoReale),
			ReportedDepDelay:     f.RitardoPartenza,
			ReportedArrDelay:     f.RitaardoArrivo,
			FinalArrDelay:        f.RitardoArrivo,
		})
	}
	return fields, records
}

// pickPlatform prefers the actual arrival platform, then the scheduled
// arrival, then the departure equivalents, matching what the station
// boards show.
func pickPlatform(f provider.TrainStop) string {
	for _, p := range []string{
		f.BinarioEffettivoArrivo,
		f.BinarioProgrammatoArrivo,
		f.BinarioEffettivoPartenza,
		f.BinarioProgrammatoPartenza,
	} {
		if p != "" {
			return p
		}
	}
	return "-"
}

// capitalizeName title-cases an upstream station name. Both feeds shout
// station names ("MILANO CENTRALE"); displays expect "Milano Centrale".
func capitalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	upperNext := true
	for _, r := range strings.ToLower(name) {
		if upperNext && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		upperNext = !unicode.IsLetter(r)
		b.WriteRune(r)
	}
	return b.String()
}
