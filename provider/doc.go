// Package provider fetches and models the raw upstream documents.
//
// Two unrelated feeds are supported: the national ViaggiaTreno REST feed
// (millisecond-epoch timestamps, train status keyed by an opaque
// "station/number/dateMillis" identifier) and Italo's RicercaTrenoService
// (HH:mm local time strings keyed by train number). The structs here
// mirror the wire formats verbatim, including upstream misspellings;
// normalization happens in package journey.
package provider
