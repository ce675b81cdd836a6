// Package timeutil provides time parsing and date arithmetic shared by the
// provider adapters and the schedule replicator.
//
// It contains:
//   - HH:mm parsing in the providers' fixed UTC+1 zone
//   - The "no data" sentinel convention used by both upstream feeds
//   - Whole-minute delay arithmetic
//   - Time-of-day replay onto a target calendar date with day rollover
package timeutil
