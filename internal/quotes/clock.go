package quotes

import (
	"sync"
	"time"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// Timer is a repeating timer handle.
type Timer interface {
	Stop()
}

// TimerFactory arms repeating timers. f is invoked every d until Stop.
type TimerFactory interface {
	Every(d time.Duration, f func()) Timer
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SystemTimers arms timers backed by time.Ticker.
type SystemTimers struct{}

func (SystemTimers) Every(d time.Duration, f func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(f)
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// run fires each tick on its own goroutine so a slow callback never delays
// the next firing.
func (t *tickerTimer) run(f func()) {
	for {
		select {
		case <-t.ticker.C:
			go f()
		case <-t.done:
			return
		}
	}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
