// Package journey is the normalization and status-derivation engine.
//
// It maps the two upstream schedule formats (ViaggiaTreno and Italo) into
// one canonical Stop sequence, classifies each stop as not-yet-reached /
// in-station / departed against a caller-supplied clock, re-anchors a stop
// sequence onto a different calendar date, and enforces contiguous
// sub-journey selection.
//
// Everything in this package is a pure function of (raw input, now,
// previous main delay); it performs no I/O and holds no state between
// calls, so derivations for different journeys may run concurrently.
// Within one journey the per-stop walk is sequential because the running
// main delay carries from stop to stop.
package journey
