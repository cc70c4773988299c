package feeclient

import (
	"context"
	"sync"
	"time"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain/offer"
)

// DefaultDebounce is how long the fetcher waits for the form to settle
// before hitting the fee endpoint
const DefaultDebounce = 500 * time.Millisecond

// State is a point-in-time view of the fetcher. Rate is the last rate
// that resolved successfully, it survives later failures so the form
// keeps showing a number while the endpoint is flaky, with Err set to
// flag the staleness.
type State struct {
	Rate     *offer.FeeRate
	Err      error
	Fetching bool
	Pending  bool
}

// DebouncedFetcher serializes fee lookups for one form instance. Every
// Update restarts the debounce window and aborts whatever request is in
// flight, so at most one request is ever outstanding and a stale
// response can never overwrite a newer one.
//
// Not shared between forms, each consumer owns its own fetcher.
type DebouncedFetcher struct {
	client Client
	wait   time.Duration

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	cancel   context.CancelFunc
	pending  offer.PricingContext
	fetching bool
	closed   bool

	lastKey string
	rate    *offer.FeeRate
	err     error
}

func NewDebouncedFetcher(client Client, wait time.Duration) *DebouncedFetcher {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &DebouncedFetcher{
		client: client,
		wait:   wait,
	}
}

// Update feeds the fetcher the latest pricing context. It returns
// immediately, the fetch happens after the debounce window on its own
// goroutine.
func (f *DebouncedFetcher) Update(ctx bCtx.Ctx, pc offer.PricingContext) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	// nothing to price without a currency, and a context we already
	// resolved needs no refetch. Either way any scheduled or in-flight
	// work is now for an outdated context.
	if !pc.HasCurrency() || (pc.Key() == f.lastKey && f.err == nil) {
		f.invalidateLocked()
		return
	}

	f.invalidateLocked()
	f.pending = pc

	gen := f.gen
	f.timer = time.AfterFunc(f.wait, func() {
		f.fire(ctx, gen)
	})
}

// invalidateLocked supersedes all scheduled and in-flight work. Callers
// must hold mu.
func (f *DebouncedFetcher) invalidateLocked() {
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.fetching = false
}

func (f *DebouncedFetcher) fire(ctx bCtx.Ctx, gen uint64) {
	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return
	}
	pc := f.pending
	fetchCtx, cancel := bCtx.WithCancel(ctx)
	f.cancel = cancel
	f.fetching = true
	f.timer = nil
	f.mu.Unlock()

	rate, err := f.client.GetFeeRate(fetchCtx, pc)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		// superseded while in flight, drop the response
		return
	}
	f.cancel = nil
	f.fetching = false

	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Warn("fee fetch failed, keeping last rate")
		f.err = err
		return
	}
	f.rate = rate
	f.err = nil
	f.lastKey = pc.Key()
}

// Snapshot returns the current state
func (f *DebouncedFetcher) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Rate:     f.rate,
		Err:      f.err,
		Fetching: f.fetching,
		Pending:  f.timer != nil,
	}
}

// Close stops the timer and aborts any in-flight request. The fetcher
// ignores Updates afterwards.
func (f *DebouncedFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.invalidateLocked()
	f.closed = true
}
