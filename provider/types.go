package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// LooseBool decodes the boolean fields Italo serves as either JSON
// booleans or 0/1 numbers, depending on the backend answering.
type LooseBool bool

func (b *LooseBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		return fmt.Errorf("provider: invalid boolean %q", data)
	}
	return nil
}

// TrainStatus is the ViaggiaTreno "andamentoTreno" document.
// Timestamps are milliseconds since epoch; 0 means "not reported".
type TrainStatus struct {
	CompNumeroTreno  string      `json:"compNumeroTreno"`
	UltimoRilev      int64       `json:"ultimoRilev"`
	Ritardo          int         `json:"ritardo"`
	CompOrientamento []string    `json:"compOrientamento"`
	SubTitle         string      `json:"subTitle"`
	Fermate          []TrainStop `json:"fermate"`
}

// TrainStop is one ViaggiaTreno "fermate" entry.
type TrainStop struct {
	Stazione          string `json:"stazione"`
	ActualFermataType int    `json:"actualFermataType"`

	RitardoPartenza int `json:"ritardoPartenza"`
	// The feed really spells this key with the double "a"; the correctly
	// spelled RitardoArrivo below is only authoritative at the final stop.
	RitaardoArrivo int `json:"ritaardoArrivo"`
	RitardoArrivo  int `json:"ritardoArrivo"`

	PartenzaTeorica int64 `json:"partenza_teorica"`
	ArrivoTeorico   int64 `json:"arrivo_teorico"`
	PartenzaReale   int64 `json:"partenzaReale"`
	ArrivoReale     int64 `json:"arrivoReale"`

	BinarioEffettivoArrivo     string `json:"binarioEffettivoArrivoDescrizione"`
	BinarioProgrammatoArrivo   string `json:"binarioProgrammatoArrivoDescrizione"`
	BinarioEffettivoPartenza   string `json:"binarioEffettivoPartenzaDescrizione"`
	BinarioProgrammatoPartenza string `json:"binarioProgrammatoPartenzaDescrizione"`
}

// ItaloStatus is the RicercaTrenoService document. All times are HH:mm
// strings; "" and "01:00" mean "not reported".
type ItaloStatus struct {
	IsEmpty       LooseBool      `json:"IsEmpty"`
	LastUpdate    string         `json:"LastUpdate"`
	TrainSchedule *ItaloSchedule `json:"TrainSchedule"`
}

// ItaloSchedule carries the per-train schedule. The raw stop sequence is
// the explicit origin record followed by the "stopped" and "not stopped"
// arrays, in that order; the concatenation order encodes route order.
type ItaloSchedule struct {
	TrainNumber string `json:"TrainNumber"`
	// "Distruption" is Italo's own spelling of the key.
	Distruption      ItaloDisruption `json:"Distruption"`
	Leg              ItaloLeg        `json:"Leg"`
	StazionePartenza ItaloStop       `json:"StazionePartenza"`
	StazioniFerme    []ItaloStop     `json:"StazioniFerme"`
	StazioniNonFerme []ItaloStop     `json:"StazioniNonFerme"`
}

// ItaloDisruption is the journey-level delay and warning block.
type ItaloDisruption struct {
	DelayAmount int    `json:"DelayAmount"`
	Warning     string `json:"Warning"`
}

// ItaloLeg carries the journey direction text.
type ItaloLeg struct {
	TrainOrientation string `json:"TrainOrientation"`
}

// ItaloStop is one Italo stop record.
type ItaloStop struct {
	LocationDescription    string `json:"LocationDescription"`
	ActualArrivalPlatform  string `json:"ActualArrivalPlatform"`
	EstimatedDepartureTime string `json:"EstimatedDepartureTime"`
	EstimatedArrivalTime   string `json:"EstimatedArrivalTime"`
	ActualDepartureTime    string `json:"ActualDepartureTime"`
	ActualArrivalTime      string `json:"ActualArrivalTime"`
}

// TrainMatch is one result line of the ViaggiaTreno number autocomplete:
// the station code of the train's origin plus the service's departure-date
// timestamp, combined into the opaque poll identifier.
type TrainMatch struct {
	Number      string
	StationCode string
	DateMillis  int64
}

// Identifier renders the "station/number/dateMillis" poll key used by the
// status endpoint.
func (m TrainMatch) Identifier() string {
	return m.StationCode + "/" + m.Number + "/" + strconv.FormatInt(m.DateMillis, 10)
}
