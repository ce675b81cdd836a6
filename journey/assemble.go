package journey

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/railtrack/provider"
)

// DeriveViaggiaTrenoJourney normalizes a ViaggiaTreno status document
// fetched for the given poll identifier. ok is false when the document
// matched no train (empty fermate); callers treat that as "try again
// later", never as an error.
func DeriveViaggiaTrenoJourney(doc *provider.TrainStatus, identifier string, now time.Time, sel map[StopKey]struct{}) (Journey, bool) {
	fields, records := adaptViaggiaTreno(doc)
	return assemble(fields, records, ProviderViaggiaTreno, identifier, now, sel, deriveOptions{
		finalDelayAuthoritative: true,
	})
}

// DeriveItaloJourney normalizes an Italo status document. The train number
// doubles as the poll identifier. ok is false for an empty document.
func DeriveItaloJourney(doc *provider.ItaloStatus, now time.Time, sel map[StopKey]struct{}) (Journey, bool) {
	fields, records := adaptItalo(doc, now)
	return assemble(fields, records, ProviderItalo, fields.number, now, sel, deriveOptions{
		finalDelayAuthoritative: false,
	})
}

// DeriveJourney decodes a raw status document for the given provider and
// derives the journey. err reports a malformed document; ok mirrors the
// typed entry points' "train not found" outcome.
func DeriveJourney(raw []byte, p Provider, identifier string, now time.Time, sel map[StopKey]struct{}) (j Journey, ok bool, err error) {
	switch p {
	case ProviderViaggiaTreno:
		var doc provider.TrainStatus
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Journey{}, false, fmt.Errorf("journey.DeriveJourney: decode %s: %w", p, err)
		}
		j, ok = DeriveViaggiaTrenoJourney(&doc, identifier, now, sel)
		return j, ok, nil
	case ProviderItalo:
		var doc provider.ItaloStatus
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Journey{}, false, fmt.Errorf("journey.DeriveJourney: decode %s: %w", p, err)
		}
		j, ok = DeriveItaloJourney(&doc, now, sel)
		return j, ok, nil
	default:
		return Journey{}, false, fmt.Errorf("journey.DeriveJourney: unknown provider %q", p)
	}
}

// assemble combines adapter fields and derived stops into the canonical
// aggregate. Cancellation is decided here, once, from the disruption
// text; the deriver has already computed raw values unconditionally.
func assemble(fields journeyFields, records []RawStopRecord, p Provider, identifier string, now time.Time, sel map[StopKey]struct{}, opts deriveOptions) (Journey, bool) {
	if len(records) == 0 {
		return Journey{}, false
	}

	stops, mainDelay, err := deriveStops(records, now, fields.mainDelay, opts)
	if err != nil {
		return Journey{}, false
	}

	for i := range stops {
		if _, selected := sel[stops[i].Key()]; selected {
			stops[i].IsSelected = true
		}
	}

	var lastUpdate time.Time
	if fields.lastUpdate != 0 {
		lastUpdate = time.UnixMilli(fields.lastUpdate)
	}

	return Journey{
		ID:         uuid.New(),
		Logo:       fields.logo,
		Number:     fields.number,
		Provider:   p,
		Identifier: identifier,
		LastUpdate: lastUpdate,
		Delay:      mainDelay,
		Direction:  fields.direction,
		Issue:      fields.issue,
		Cancelled:  fields.issue == CancelledIssue,
		Stops:      stops,
	}, true
}

// AnnotateWeather fills each stop's weather text via the caller-supplied
// lookup. Weather is an external collaborator's concern; the engine only
// carries the text through opaquely.
func (j *Journey) AnnotateWeather(lookup func(name string, at time.Time) string) {
	if lookup == nil {
		return
	}
	for i := range j.Stops {
		j.Stops[i].Weather = lookup(j.Stops[i].Name, j.Stops[i].RefTime)
	}
}
