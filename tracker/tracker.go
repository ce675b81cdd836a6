// Package tracker polls tracked trains on a fixed cadence and keeps the
// latest derived journey for each. Journeys poll independently of each
// other; within one journey polls are strictly sequential.
package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/railtrack/journey"
	"github.com/theoremus-urban-solutions/railtrack/metrics"
	"github.com/theoremus-urban-solutions/railtrack/provider"
)

// ErrNotTracked is returned for operations on an unknown journey key.
var ErrNotTracked = errors.New("tracker: journey not tracked")

// StatusFetcher is the provider surface the tracker needs. Satisfied by
// *provider.Client; tests substitute a stub.
type StatusFetcher interface {
	FetchTrainStatus(ctx context.Context, identifier string) (*provider.TrainStatus, error)
	FetchItaloStatus(ctx context.Context, number string) (*provider.ItaloStatus, error)
}

// Publisher receives every successfully derived journey. Satisfied by
// *publisher.JourneyPublisher; nil disables publishing.
type Publisher interface {
	Publish(j journey.Journey) error
}

// Options configures a Tracker.
type Options struct {
	PollInterval time.Duration
	PollTimeout  time.Duration
	// MaxBackoffExponent caps failure backoff at interval*2^exponent.
	// Zero or negative selects the default of 5.
	MaxBackoffExponent int

	Metrics   *metrics.Collector
	Publisher Publisher
	// Now is the clock used for derivation; nil means time.Now.
	Now func() time.Time
}

type entry struct {
	provider   journey.Provider
	identifier string

	mu       sync.Mutex
	sel      map[journey.StopKey]struct{}
	selRange journey.Range
	latest   journey.Journey
	hasData  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Tracker owns the set of polled journeys.
type Tracker struct {
	fetcher StatusFetcher
	opts    Options

	mu      sync.Mutex
	entries map[string]*entry
}

func New(fetcher StatusFetcher, opts Options) *Tracker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 15 * time.Second
	}
	if opts.MaxBackoffExponent <= 0 {
		opts.MaxBackoffExponent = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{fetcher: fetcher, opts: opts, entries: map[string]*entry{}}
}

// Track starts polling one train. The identifier is the provider's poll
// key: "station/number/dateMillis" for ViaggiaTreno, the bare train
// number for Italo. Tracking an already tracked key is a no-op.
func (t *Tracker) Track(ctx context.Context, p journey.Provider, identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[identifier]; ok {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e := &entry{
		provider:   p,
		identifier: identifier,
		sel:        map[journey.StopKey]struct{}{},
		selRange:   journey.NoRange,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	t.entries[identifier] = e
	if t.opts.Metrics != nil {
		t.opts.Metrics.TrackedJourneys.Inc()
	}
	go t.loop(loopCtx, e)
}

// Untrack stops polling and forgets the journey. Blocks until the poll
// loop has exited.
func (t *Tracker) Untrack(identifier string) {
	t.mu.Lock()
	e, ok := t.entries[identifier]
	if ok {
		delete(t.entries, identifier)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	e.cancel()
	<-e.done
	if t.opts.Metrics != nil {
		t.opts.Metrics.TrackedJourneys.Dec()
	}
}

// Snapshot returns the latest derived journey for a tracked key. ok is
// false when the key is unknown or no poll has succeeded yet.
func (t *Tracker) Snapshot(identifier string) (journey.Journey, bool) {
	t.mu.Lock()
	e, tracked := t.entries[identifier]
	t.mu.Unlock()
	if !tracked {
		return journey.Journey{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.hasData
}

// Identifiers lists the tracked poll keys.
func (t *Tracker) Identifiers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	return ids
}

// ToggleStop applies one selection tap to the journey's stops and
// returns the updated snapshot. Selections survive repolls: they are
// stored as stop keys and re-applied each time the stops are rebuilt.
func (t *Tracker) ToggleStop(identifier string, tapped int) (journey.Journey, error) {
	t.mu.Lock()
	e, tracked := t.entries[identifier]
	t.mu.Unlock()
	if !tracked {
		return journey.Journey{}, ErrNotTracked
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasData {
		return journey.Journey{}, ErrNotTracked
	}

	e.selRange = journey.Toggle(e.selRange, tapped, len(e.latest.Stops))
	e.sel = journey.SelectionKeys(e.latest.Stops, e.selRange)

	// Snapshot hands the stops slice to callers, so rebuild it instead of
	// writing through the shared backing array.
	stops := make([]journey.Stop, len(e.latest.Stops))
	copy(stops, e.latest.Stops)
	for i := range stops {
		_, selected := e.sel[stops[i].Key()]
		stops[i].IsSelected = selected
	}
	e.latest.Stops = stops
	return e.latest, nil
}

// Close stops every poll loop.
func (t *Tracker) Close() {
	t.mu.Lock()
	entries := make([]*entry, 0, len(t.entries))
	for _, e := range t.entries {
		entries = append(entries, e)
	}
	t.entries = map[string]*entry{}
	t.mu.Unlock()

	for _, e := range entries {
		e.cancel()
		<-e.done
	}
}

func (t *Tracker) loop(ctx context.Context, e *entry) {
	defer close(e.done)

	b := &backoff{period: t.opts.PollInterval, maxExponent: t.opts.MaxBackoffExponent}
	for {
		b.startRun()
		ok := t.pollOnce(ctx, e)
		next := b.endRun(ok)

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}
	}
}

func (t *Tracker) pollOnce(ctx context.Context, e *entry) bool {
	ctx, cancel := context.WithTimeout(ctx, t.opts.PollTimeout)
	defer cancel()

	start := time.Now()
	j, ok := t.fetchAndDerive(ctx, e)
	if t.opts.Metrics != nil {
		t.opts.Metrics.PollsTotal.WithLabelValues(string(e.provider)).Inc()
		t.opts.Metrics.PollDuration.Observe(time.Since(start).Seconds())
		if !ok {
			t.opts.Metrics.PollErrors.WithLabelValues(string(e.provider)).Inc()
		}
	}
	if !ok {
		return false
	}

	e.mu.Lock()
	e.latest = j
	e.hasData = true
	e.mu.Unlock()

	if t.opts.Publisher != nil {
		if err := t.opts.Publisher.Publish(j); err != nil {
			log.Printf("tracker: publish %s: %v", e.identifier, err)
		}
	}
	return true
}

func (t *Tracker) fetchAndDerive(ctx context.Context, e *entry) (journey.Journey, bool) {
	e.mu.Lock()
	sel := e.sel
	e.mu.Unlock()

	now := t.opts.Now()
	switch e.provider {
	case journey.ProviderViaggiaTreno:
		doc, err := t.fetcher.FetchTrainStatus(ctx, e.identifier)
		if err != nil {
			log.Printf("tracker: poll %s: %v", e.identifier, err)
			return journey.Journey{}, false
		}
		j, ok := journey.DeriveViaggiaTrenoJourney(doc, e.identifier, now, sel)
		if !ok && t.opts.Metrics != nil {
			t.opts.Metrics.DeriveFailures.Inc()
		}
		return j, ok
	case journey.ProviderItalo:
		doc, err := t.fetcher.FetchItaloStatus(ctx, e.identifier)
		if err != nil {
			log.Printf("tracker: poll italo %s: %v", e.identifier, err)
			return journey.Journey{}, false
		}
		j, ok := journey.DeriveItaloJourney(doc, now, sel)
		if !ok && t.opts.Metrics != nil {
			t.opts.Metrics.DeriveFailures.Inc()
		}
		return j, ok
	default:
		log.Printf("tracker: unknown provider %q for %s", e.provider, e.identifier)
		return journey.Journey{}, false
	}
}
