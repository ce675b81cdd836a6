package tracker

import "time"

// backoff schedules the next poll. Successes run at the fixed period;
// consecutive failures double the wait up to period*2^maxExponent so a
// broken upstream is not hammered. A zero maxExponent pins every retry
// to the plain period.
type backoff struct {
	period      time.Duration
	maxExponent int

	failures int
	lastRun  time.Time
	nextRun  time.Time
}

func (b *backoff) startRun() {
	b.lastRun = time.Now()
}

func (b *backoff) endRun(success bool) time.Time {
	if success {
		b.failures = 0
		b.nextRun = b.lastRun.Add(b.period)
		return b.nextRun
	}
	b.failures++
	exp := b.failures - 1
	if exp > b.maxExponent {
		exp = b.maxExponent
	}
	b.nextRun = b.lastRun.Add(b.period << exp)
	return b.nextRun
}
