// Package quotes keeps a live quote cache fresh with a market-hours-aware
// polling schedule.
package quotes

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/cache"
	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/market"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

// Default polling cadence.
const (
	DefaultOpenInterval   = 30 * time.Second
	DefaultClosedInterval = 5 * time.Minute
)

// Scheduler owns the watched symbol set, the quote cache and at most one
// repeating timer. It is the only writer of its cache.
type Scheduler struct {
	client interfaces.QuoteClient
	cache  *cache.QuoteCache
	logger *common.Logger
	clock  Clock
	timers TimerFactory
	loc    *time.Location
	open   time.Duration
	closed time.Duration
	ctx    context.Context

	mu       sync.Mutex
	symbols  []string
	timer    Timer
	armed    time.Duration
	gen      uint64
	inflight int
	lastErr  string

	// the one tick-driven fetch in flight, if any
	tickBusy  bool
	tickGen   uint64
	tickSeq   uint64
	tickStart time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock injects the time source.
func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

// WithTimers injects the repeating timer primitive.
func WithTimers(f TimerFactory) Option { return func(s *Scheduler) { s.timers = f } }

// WithLocation sets the trading timezone used by the market-hours check.
func WithLocation(loc *time.Location) Option { return func(s *Scheduler) { s.loc = loc } }

// WithIntervals overrides the open and closed polling cadence.
func WithIntervals(open, closed time.Duration) Option {
	return func(s *Scheduler) {
		if open > 0 {
			s.open = open
		}
		if closed > 0 {
			s.closed = closed
		}
	}
}

// WithCache supplies the cache to write into.
func WithCache(c *cache.QuoteCache) Option { return func(s *Scheduler) { s.cache = c } }

// WithContext sets the context used for timer-driven fetches.
func WithContext(ctx context.Context) Option { return func(s *Scheduler) { s.ctx = ctx } }

// NewScheduler creates an idle scheduler.
func NewScheduler(client interfaces.QuoteClient, logger *common.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		client: client,
		logger: logger,
		clock:  SystemClock{},
		timers: SystemTimers{},
		open:   DefaultOpenInterval,
		closed: DefaultClosedInterval,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New(0)
	}
	if s.loc == nil {
		s.loc = market.Eastern()
	}
	return s
}

// StartPolling replaces the watched set, fetches once, then arms the timer.
// Any live timer is cancelled first. An empty set leaves the scheduler idle.
func (s *Scheduler) StartPolling(ctx context.Context, symbols []string) {
	syms := normalize(symbols)

	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.symbols = syms
	s.mu.Unlock()

	if len(syms) == 0 {
		s.logger.Debug().Msg("StartPolling with no symbols, staying idle")
		return
	}

	s.FetchQuotes(ctx, syms)

	s.mu.Lock()
	defer s.mu.Unlock()
	// a later StartPolling or StopPolling owns the schedule now
	if s.gen != gen {
		return
	}
	s.armLocked(gen, s.intervalAt(s.clock.Now()))
	s.logger.Info().
		Strs("symbols", syms).
		Dur("interval", s.armed).
		Msg("Quote polling started")
}

// AddSymbols extends the watched set without re-arming, so the next tick
// picks the new symbols up. Starts polling when idle.
func (s *Scheduler) AddSymbols(ctx context.Context, symbols []string) {
	add := normalize(symbols)
	if len(add) == 0 {
		return
	}

	s.mu.Lock()
	if s.timer == nil {
		merged := append(append([]string(nil), s.symbols...), add...)
		s.mu.Unlock()
		s.StartPolling(ctx, merged)
		return
	}
	s.symbols = normalize(append(s.symbols, add...))
	s.mu.Unlock()

	s.FetchQuotes(ctx, add)
}

// StopPolling cancels the timer and clears the watched set. Idempotent.
func (s *Scheduler) StopPolling() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasPolling := s.timer != nil
	s.cancelLocked()
	s.gen++
	s.symbols = nil
	if wasPolling {
		s.logger.Info().Msg("Quote polling stopped")
	}
}

// FetchQuotes fetches the de-duplicated, uppercased symbols and merges the
// result into the cache. On failure the error is recorded and the cache is
// left as it was. A recorded error is cleared only by a successful fetch that
// covers the whole watched set. Returns the cached quotes for the requested
// symbols.
func (s *Scheduler) FetchQuotes(ctx context.Context, symbols []string) map[string]models.Quote {
	syms := normalize(symbols)
	if len(syms) == 0 {
		return map[string]models.Quote{}
	}

	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	start := s.clock.Now()
	quotes, err := s.client.GetQuoteSnapshot(ctx, syms)

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.lastErr = err.Error()
	} else if covers(syms, s.symbols) {
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().
			Err(err).
			Strs("symbols", syms).
			Msg("Quote fetch failed, keeping cached quotes")
	} else {
		s.cache.Merge(quotes, s.clock.Now())
		s.logger.Debug().
			Int("requested", len(syms)).
			Int("received", len(quotes)).
			Dur("elapsed", s.clock.Now().Sub(start)).
			Msg("Quotes refreshed")
	}

	out := make(map[string]models.Quote, len(syms))
	for _, sym := range syms {
		if q, ok := s.cache.Get(sym); ok {
			out[sym] = q
		}
	}
	return out
}

// GetQuote is a case-insensitive cache lookup.
func (s *Scheduler) GetQuote(symbol string) (models.Quote, bool) {
	return s.cache.Get(symbol)
}

// Quotes returns a snapshot of the whole cache.
func (s *Scheduler) Quotes() map[string]models.Quote {
	return s.cache.Snapshot()
}

// LastUpdated returns when the cache was last refreshed.
func (s *Scheduler) LastUpdated() time.Time {
	return s.cache.LastUpdated()
}

// Interval returns the cadence currently armed, or the one that would be
// armed now when idle.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		return s.armed
	}
	return s.intervalAt(s.clock.Now())
}

// Status reports the scheduler's externally visible state.
func (s *Scheduler) Status() models.QuoteStatus {
	interval := s.Interval()

	s.mu.Lock()
	st := models.QuoteStatus{
		Symbols:      append([]string{}, s.symbols...),
		Loading:      s.inflight > 0,
		Polling:      s.timer != nil,
		IntervalSecs: int(interval / time.Second),
		Error:        s.lastErr,
	}
	s.mu.Unlock()

	st.Quotes = s.cache.Snapshot()
	st.LastUpdated = s.cache.LastUpdated()
	return st
}

// tick refreshes the live symbol set and re-arms when the market-hours
// interval has changed since the timer was armed. A tick is skipped only
// while a tick of the same session is in flight and younger than one
// interval, so a hung fetch never holds up a later session or a later cycle.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	if s.tickBusy && s.tickGen == gen && now.Sub(s.tickStart) < s.armed {
		s.mu.Unlock()
		s.logger.Debug().Msg("Quote tick skipped, previous refresh still running")
		return
	}
	s.tickSeq++
	seq := s.tickSeq
	s.tickBusy, s.tickGen, s.tickStart = true, gen, now
	syms := append([]string(nil), s.symbols...)
	s.mu.Unlock()

	s.FetchQuotes(s.ctx, syms)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tickSeq == seq {
		s.tickBusy = false
	}
	if s.gen != gen || s.timer == nil {
		return
	}
	next := s.intervalAt(s.clock.Now())
	if next != s.armed {
		s.logger.Info().
			Dur("from", s.armed).
			Dur("to", next).
			Msg("Market hours changed, re-arming quote timer")
		s.cancelLocked()
		s.armLocked(gen, next)
	}
}

// armLocked must be called with mu held and no live timer.
func (s *Scheduler) armLocked(gen uint64, d time.Duration) {
	s.armed = d
	s.timer = s.timers.Every(d, func() { s.tick(gen) })
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = 0
}

func (s *Scheduler) intervalAt(t time.Time) time.Duration {
	return market.PollInterval(t, s.loc, s.open, s.closed)
}

// covers reports whether fetched includes every watched symbol. Both are
// normalised; an empty watched set is always covered.
func covers(fetched, watched []string) bool {
	for _, sym := range watched {
		if !slices.Contains(fetched, sym) {
			return false
		}
	}
	return true
}

// normalize uppercases, trims, de-duplicates and sorts symbols.
func normalize(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		k := cache.Key(sym)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
