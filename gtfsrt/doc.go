// Package gtfsrt renders derived journeys as GTFS-Realtime TripUpdate
// feeds so downstream transit consumers can ingest them with standard
// tooling. The mapping is lossy by design: GTFS-RT has no notion of the
// providers' platform text or weather annotations.
package gtfsrt
