package journey

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Provider tags the upstream feed a journey came from.
type Provider string

const (
	ProviderViaggiaTreno Provider = "trenitalia"
	ProviderItalo        Provider = "italo"
)

// CancelledIssue is the disruption text ViaggiaTreno uses for a cancelled
// train. The assembler compares it once and sets Journey.Cancelled; the
// deriver never looks at it.
const CancelledIssue = "Treno cancellato"

// StopStatus is the provider-reported scheduling status of a single stop.
type StopStatus int

const (
	StatusRegular StopStatus = iota
	StatusRegularVariant
	StatusUnscheduled
	StatusCancelled
)

// ErrNoStops is returned when an empty stop sequence reaches the deriver
// or the replicator. This is a programming error, not a data-quality
// outcome: adapters represent "train not found" as an empty adapter
// result, which callers must not forward.
var ErrNoStops = errors.New("journey: empty stop sequence")

// ErrIdentifierNotReplicated is returned by Replicate when the poll
// identifier does not decompose into its expected "/"-separated fields.
// The returned journey is still valid, but keeps the original identifier
// and will not poll live data for the new date.
var ErrIdentifierNotReplicated = errors.New("journey: identifier not replicated")

// RawStopRecord is one provider stop before normalization. Actual times
// use the sentinel convention from timeutil when not yet reported.
type RawStopRecord struct {
	Name     string
	Platform string
	Status   StopStatus

	TheoreticalDeparture time.Time
	TheoreticalArrival   time.Time
	ActualDeparture      time.Time
	ActualArrival        time.Time

	// Provider-reported per-stop delay figures, minutes. ReportedArrDelay
	// comes from ViaggiaTreno's misspelled "ritaardoArrivo" key;
	// FinalArrDelay from the correctly spelled key, authoritative at the
	// destination once the run is complete.
	ReportedDepDelay int
	ReportedArrDelay int
	FinalArrDelay    int
}

// Stop is the canonical per-stop record after derivation.
type Stop struct {
	Name     string     `json:"name"`
	Platform string     `json:"platform"`
	Weather  string     `json:"weather"`
	Status   StopStatus `json:"status"`

	IsSelected  bool `json:"is_selected"`
	IsCompleted bool `json:"is_completed"`
	IsInStation bool `json:"is_in_station"`

	DepDelay int `json:"dep_delay"`
	ArrDelay int `json:"arr_delay"`

	TheoreticalDeparture time.Time `json:"dep_time_id"`
	TheoreticalArrival   time.Time `json:"arr_time_id"`
	EffectiveDeparture   time.Time `json:"dep_time_eff"`
	EffectiveArrival     time.Time `json:"arr_time_eff"`

	// RefTime orders stops within a journey: theoretical departure for the
	// origin, theoretical arrival otherwise. Non-decreasing in route order.
	RefTime time.Time `json:"ref_time"`
}

// Journey is the canonical train aggregate produced on every poll.
type Journey struct {
	ID       uuid.UUID `json:"id"`
	Logo     string    `json:"logo"`
	Number   string    `json:"number"`
	Provider Provider  `json:"provider"`

	// Identifier is the provider's opaque poll key, used to re-fetch the
	// same train. For ViaggiaTreno it is "station/number/dateMillis".
	Identifier string `json:"identifier"`

	LastUpdate time.Time `json:"last_update_time"`
	Delay      int       `json:"delay"`
	Direction  string    `json:"direction"`

	// Issue is the provider's free-text disruption message; empty means no
	// issue. Cancelled is decided once from it at assembly time.
	Issue     string `json:"issue"`
	Cancelled bool   `json:"cancelled"`

	Stops []Stop `json:"stops"`
}

// Origin returns the journey's first stop regardless of selection.
func (j Journey) Origin() Stop { return j.Stops[0] }

// Destination returns the journey's last stop regardless of selection.
func (j Journey) Destination() Stop { return j.Stops[len(j.Stops)-1] }

// StopKey identifies a stop by value. Stops are rebuilt on every poll, so
// selections match by (name, ref time) equality, never by identity. The
// ref time is kept as epoch seconds so keys compare across time zones and
// round-trips through persistence.
type StopKey struct {
	Name    string
	RefUnix int64
}

// Key returns the stop's selection key.
func (s Stop) Key() StopKey {
	return StopKey{Name: s.Name, RefUnix: s.RefTime.Unix()}
}
