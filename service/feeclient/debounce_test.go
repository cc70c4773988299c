package feeclient

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
)

type fakeClient struct {
	mu      sync.Mutex
	delay   time.Duration
	rate    int64
	err     error
	calls   []offer.PricingContext
	aborted int
}

func (f *fakeClient) GetFeeRate(c bCtx.Ctx, pc offer.PricingContext) (*offer.FeeRate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, pc)
	delay, rate, err := f.delay, f.rate, f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Done():
			f.mu.Lock()
			f.aborted++
			f.mu.Unlock()
			return nil, c.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &offer.FeeRate{ValuePerTenThousand: rate}, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) lastCall() offer.PricingContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeClient) abortedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.aborted
}

func (f *fakeClient) set(rate int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
	f.err = err
}

func pcWithQuantity(quantity int64) offer.PricingContext {
	return offer.PricingContext{
		ChainId:         1,
		ContractAddress: "0x00000000000000000000000000000000000000aa",
		TokenId:         "1",
		Currency:        "0x00000000000000000000000000000000000000bb",
		UnitPrice:       money.MustParse("1", 18),
		Quantity:        quantity,
	}
}

func TestDebounceCoalescesRapidUpdates(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 50*time.Millisecond)
	defer f.Close()

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(10 * time.Millisecond)
	f.Update(c, pcWithQuantity(2))
	time.Sleep(10 * time.Millisecond)
	f.Update(c, pcWithQuantity(3))

	time.Sleep(200 * time.Millisecond)

	require.Equal(t, 1, cli.callCount(), "rapid updates must coalesce into one fetch")
	assert.Equal(t, int64(3), cli.lastCall().Quantity)

	st := f.Snapshot()
	require.NotNil(t, st.Rate)
	assert.Equal(t, int64(250), st.Rate.ValuePerTenThousand)
	assert.NoError(t, st.Err)
	assert.False(t, st.Fetching)
	assert.False(t, st.Pending)
}

func TestUpdateAbortsInFlightFetch(t *testing.T) {
	cli := &fakeClient{rate: 250, delay: 150 * time.Millisecond}
	f := NewDebouncedFetcher(cli, 10*time.Millisecond)
	defer f.Close()

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(50 * time.Millisecond) // first fetch is now in flight

	f.Update(c, pcWithQuantity(2))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 2, cli.callCount())
	assert.Equal(t, 1, cli.abortedCount(), "the superseded request must be canceled")
	assert.Equal(t, int64(2), cli.lastCall().Quantity)

	st := f.Snapshot()
	require.NotNil(t, st.Rate)
	assert.NoError(t, st.Err)
}

func TestFailureKeepsLastKnownRate(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 10*time.Millisecond)
	defer f.Close()

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(100 * time.Millisecond)

	st := f.Snapshot()
	require.NotNil(t, st.Rate)
	require.NoError(t, st.Err)

	cli.set(0, domain.ErrFeeFetchFailed)
	f.Update(c, pcWithQuantity(2))
	time.Sleep(100 * time.Millisecond)

	st = f.Snapshot()
	require.NotNil(t, st.Rate, "stale rate must survive a failed refresh")
	assert.Equal(t, int64(250), st.Rate.ValuePerTenThousand)
	assert.ErrorIs(t, st.Err, domain.ErrFeeFetchFailed)
}

func TestNoCurrencyMeansNoFetch(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 10*time.Millisecond)
	defer f.Close()

	pc := pcWithQuantity(1)
	pc.Currency = ""
	f.Update(bCtx.Background(), pc)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 0, cli.callCount())
	assert.Nil(t, f.Snapshot().Rate)
}

func TestResolvedContextIsMemoized(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 10*time.Millisecond)
	defer f.Close()

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, cli.callCount())

	// same input again, nothing new to learn
	f.Update(c, pcWithQuantity(1))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, cli.callCount())

	// changed input fetches again
	f.Update(c, pcWithQuantity(2))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, cli.callCount())
}

func TestMemoizedUpdateCancelsScheduledFetch(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 30*time.Millisecond)
	defer f.Close()

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, cli.callCount())

	// schedule a fetch for quantity 2, then return to the resolved
	// context before the window elapses
	f.Update(c, pcWithQuantity(2))
	f.Update(c, pcWithQuantity(1))
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, 1, cli.callCount(), "reverting to the resolved context must drop the scheduled fetch")
}

func TestCloseStopsEverything(t *testing.T) {
	cli := &fakeClient{rate: 250, delay: 100 * time.Millisecond}
	f := NewDebouncedFetcher(cli, 10*time.Millisecond)

	c := bCtx.Background()
	f.Update(c, pcWithQuantity(1))
	time.Sleep(40 * time.Millisecond) // in flight

	f.Close()
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 1, cli.abortedCount())

	// updates after close are ignored
	f.Update(c, pcWithQuantity(2))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, cli.callCount())
}

func TestCloseBeforeWindowElapsesFetchesNothing(t *testing.T) {
	cli := &fakeClient{rate: 250}
	f := NewDebouncedFetcher(cli, 50*time.Millisecond)

	f.Update(bCtx.Background(), pcWithQuantity(1))
	f.Close()
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, 0, cli.callCount())
}
