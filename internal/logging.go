package internal

import (
	"log"
	"os"
)

// InitLogging routes the standard logger to stdout so poll, publish,
// and server lines land in one ordered stream for journal collectors.
// Microsecond timestamps keep poll cycles distinguishable at the
// default one-minute interval. Called once from the binary entry point.
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
