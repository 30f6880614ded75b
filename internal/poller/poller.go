// ABOUTME: Fixed-interval poller that re-runs a callback until stopped.
// ABOUTME: Runs once immediately, never backs off, and stops deterministically.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MinInterval is used in place of a non-positive interval.
const MinInterval = time.Second

// Handle controls a running poller.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	ticks  atomic.Int64
}

// Start runs callback once immediately and then every interval until Stop is
// called. Callbacks run one at a time on the poll goroutine; ticks that fire
// while a callback is still running are coalesced. A failing callback is the
// callback's own business: the next tick runs regardless. An interval of zero
// or less polls every MinInterval.
func Start(callback func(ctx context.Context), interval time.Duration) *Handle {
	if interval <= 0 {
		interval = MinInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.run(ctx, callback, interval)
	return h
}

func (h *Handle) run(ctx context.Context, callback func(ctx context.Context), interval time.Duration) {
	defer close(h.done)

	h.invoke(ctx, callback)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may have raced the tick.
			if ctx.Err() != nil {
				return
			}
			h.invoke(ctx, callback)
		}
	}
}

func (h *Handle) invoke(ctx context.Context, callback func(ctx context.Context)) {
	h.ticks.Add(1)
	callback(ctx)
}

// Stop cancels the poller and waits for the poll goroutine to exit. After Stop
// returns no callback is running and none will start. Stop is idempotent and
// safe on a nil Handle.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
	<-h.done
}

// Ticks reports how many times the callback has been invoked.
func (h *Handle) Ticks() int64 {
	if h == nil {
		return 0
	}
	return h.ticks.Load()
}
