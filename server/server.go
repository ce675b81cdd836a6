// Package server exposes the tracker over HTTP: journey lookup and
// tracking, stop selection, date replication, a GTFS-RT export, health
// and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/theoremus-urban-solutions/railtrack/metrics"
	"github.com/theoremus-urban-solutions/railtrack/provider"
	"github.com/theoremus-urban-solutions/railtrack/stations"
	"github.com/theoremus-urban-solutions/railtrack/tracker"
)

// Searcher resolves train numbers to poll identifiers. Satisfied by
// *provider.Client.
type Searcher interface {
	SearchTrainNumber(ctx context.Context, number string, sameDay time.Time) ([]provider.TrainMatch, error)
}

// Server wires the HTTP API to the tracker.
type Server struct {
	tracker  *tracker.Tracker
	searcher Searcher
	metrics  *metrics.Collector
	stations *stations.Index
	started  time.Time

	httpServer *http.Server
}

// New wires the HTTP API. metrics and idx may be nil; the corresponding
// routes respond 404.
func New(tr *tracker.Tracker, searcher Searcher, m *metrics.Collector, idx *stations.Index) *Server {
	return &Server{
		tracker:  tr,
		searcher: searcher,
		metrics:  m,
		stations: idx,
		started:  time.Now(),
	}
}

// Router builds the chi router with all routes mounted. Exposed
// separately from Start so tests can drive it with httptest.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	if s.stations != nil {
		r.Get("/api/station", s.handleStation)
	}

	r.Get("/api/journeys", s.handleListJourneys)
	r.Post("/api/journeys", s.handleTrack)
	r.Delete("/api/journey", s.handleUntrack)
	r.Get("/api/journey", s.handleJourney)
	r.Get("/api/journey/gtfsrt", s.handleJourneyGTFSRT)
	r.Post("/api/journey/toggle", s.handleToggle)
	r.Post("/api/journey/replicate", s.handleReplicate)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Start listens on the configured port. Timeouts bound slow clients.
func (s *Server) Start(port int) {
	addr := fmt.Sprintf(":%d", port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
