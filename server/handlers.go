package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/railtrack/gtfsrt"
	"github.com/theoremus-urban-solutions/railtrack/journey"
	"github.com/theoremus-urban-solutions/railtrack/timeutil"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"uptime_seconds":   int(time.Since(s.started).Seconds()),
		"tracked_journeys": len(s.tracker.Identifiers()),
	})
}

// handleSearch resolves a ViaggiaTreno train number to the poll
// identifiers of today's matching services.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing number parameter")
		return
	}

	matches, err := s.searcher.SearchTrainNumber(r.Context(), number, time.Now().In(timeutil.ProviderZone))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	type match struct {
		Number     string `json:"number"`
		Identifier string `json:"identifier"`
	}
	out := make([]match, 0, len(matches))
	for _, m := range matches {
		out = append(out, match{Number: m.Number, Identifier: m.Identifier()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleStation resolves a station name or alias to its registry entry.
func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}
	st, ok := s.stations.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown station")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    st.Name,
		"lat":     st.Latitude,
		"lon":     st.Longitude,
		"aliases": st.Aliases,
	})
}

func (s *Server) handleListJourneys(w http.ResponseWriter, r *http.Request) {
	ids := s.tracker.Identifiers()
	out := make([]journey.Journey, 0, len(ids))
	for _, id := range ids {
		if j, ok := s.tracker.Snapshot(id); ok {
			out = append(out, j)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type trackRequest struct {
	Provider   journey.Provider `json:"provider"`
	Identifier string           `json:"identifier"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Identifier == "" {
		writeError(w, http.StatusBadRequest, "missing identifier")
		return
	}
	if req.Provider != journey.ProviderViaggiaTreno && req.Provider != journey.ProviderItalo {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	// The loop outlives the request; it stops on Untrack or shutdown.
	s.tracker.Track(context.WithoutCancel(r.Context()), req.Provider, req.Identifier)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "tracking"})
}

func (s *Server) handleUntrack(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	s.tracker.Untrack(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) snapshotFromQuery(w http.ResponseWriter, r *http.Request) (journey.Journey, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return journey.Journey{}, false
	}
	j, ok := s.tracker.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "journey not tracked or no data yet")
		return journey.Journey{}, false
	}
	return j, true
}

func (s *Server) handleJourney(w http.ResponseWriter, r *http.Request) {
	j, ok := s.snapshotFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleJourneyGTFSRT(w http.ResponseWriter, r *http.Request) {
	j, ok := s.snapshotFromQuery(w, r)
	if !ok {
		return
	}
	b, err := gtfsrt.Marshal(j, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(b)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id parameter")
		return
	}
	stop, err := strconv.Atoi(r.URL.Query().Get("stop"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid stop parameter")
		return
	}

	j, err := s.tracker.ToggleStop(id, stop)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, j)
}

type replicateResponse struct {
	Journey journey.Journey `json:"journey"`
	Warning string          `json:"warning,omitempty"`
}

// handleReplicate projects a tracked journey onto another service date.
// A malformed poll identifier degrades, not fails: the replicated
// journey is returned with a warning and keeps the stale identifier.
func (s *Server) handleReplicate(w http.ResponseWriter, r *http.Request) {
	j, ok := s.snapshotFromQuery(w, r)
	if !ok {
		return
	}

	target, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), timeutil.ProviderZone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid date parameter, want YYYY-MM-DD")
		return
	}

	replicated, err := journey.Replicate(j, target)
	resp := replicateResponse{Journey: replicated}
	switch {
	case errors.Is(err, journey.ErrIdentifierNotReplicated):
		resp.Warning = err.Error()
		if s.metrics != nil {
			s.metrics.ReplicationErrors.Inc()
		}
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.Replications.Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}
