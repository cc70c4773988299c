package usecase

import (
	"strconv"
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

type fakeFeeClient struct {
	mu     sync.Mutex
	rate   int64
	err    error
	calls  int
	lastPc offer.PricingContext
}

func (f *fakeFeeClient) GetFeeRate(c bCtx.Ctx, pc offer.PricingContext) (*offer.FeeRate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPc = pc
	if f.err != nil {
		return nil, f.err
	}
	return &offer.FeeRate{ValuePerTenThousand: f.rate}, nil
}

func (f *fakeFeeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFeeClient) lastContext() offer.PricingContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPc
}

func (f *fakeFeeClient) set(rate int64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate = rate
	f.err = err
}

type sessionFixture struct {
	feeClient *fakeFeeClient
	uc        offer.QuoteSessionUseCase
}

func newSessionFixture(t *testing.T, supply int64, balance string) *sessionFixture {
	t.Helper()

	var bal *money.Money
	if balance != "" {
		m := money.MustParse(balance, 2)
		bal = &m
	}

	feeClient := &fakeFeeClient{rate: 250}
	return &sessionFixture{
		feeClient: feeClient,
		uc: NewQuoteSession(&QuoteSessionUseCaseCfg{
			FeeClient: feeClient,
			Asset:     &fakeAssetUC{asset: multiEditionAsset(supply)},
			Currency: &fakeCurrencyUC{currency: &domain.Currency{
				Symbol:   "USDX",
				Decimals: 2,
				ChainId:  1,
				Address:  currencyAddr,
			}},
			Balance:  &fakeBalanceUC{balance: bal},
			Debounce: 10 * time.Millisecond,
		}),
	}
}

func TestQuoteSessionLifecycle(t *testing.T) {
	fx := newSessionFixture(t, 10, "50.00")
	c := bCtx.Background()

	id, err := fx.uc.Create(c, makerAddr, 1, contractAddr, "7")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// untouched form quotes all zeros and fetches nothing
	view, err := fx.uc.Get(c, id)
	require.NoError(t, err)
	assert.Equal(t, "0", view.TotalPayable)
	assert.Nil(t, view.FeeRate)
	assert.False(t, view.CanAfford)

	err = fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency:  currencyAddr,
		UnitPrice: "10.00",
		Quantity:  3,
	})
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	view, err = fx.uc.Get(c, id)
	require.NoError(t, err)
	assert.Equal(t, "3000", view.TotalPrice)
	assert.Equal(t, "75", view.TotalFee)
	assert.Equal(t, "3075", view.TotalPayable)
	assert.Equal(t, "30.75", view.Display)
	require.NotNil(t, view.FeeRate)
	assert.Equal(t, int64(250), view.FeeRate.ValuePerTenThousand)
	assert.False(t, view.FeeDegraded)
	assert.True(t, view.CanAfford)

	require.NoError(t, fx.uc.Delete(c, id))
	_, err = fx.uc.Get(c, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteSessionUnknownId(t *testing.T) {
	fx := newSessionFixture(t, 10, "50.00")

	_, err := fx.uc.Get(bCtx.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = fx.uc.UpdateContext(bCtx.Background(), "nope", offer.ContextUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteSessionRejectsBadUpdates(t *testing.T) {
	fx := newSessionFixture(t, 5, "50.00")
	c := bCtx.Background()

	id, err := fx.uc.Create(c, makerAddr, 1, contractAddr, "7")
	require.NoError(t, err)

	err = fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency: currencyAddr,
		Quantity: 6,
	})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	err = fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency: "0x00000000000000000000000000000000000000ee",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	err = fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency:  currencyAddr,
		UnitPrice: "10.001",
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// a rejected update must not dirty the context, nothing to fetch yet
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, fx.feeClient.callCount())
}

func TestQuoteSessionDegradedQuoteKeepsStaleRate(t *testing.T) {
	fx := newSessionFixture(t, 10, "50.00")
	c := bCtx.Background()

	id, err := fx.uc.Create(c, makerAddr, 1, contractAddr, "7")
	require.NoError(t, err)

	require.NoError(t, fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency:  currencyAddr,
		UnitPrice: "10.00",
		Quantity:  1,
	}))
	time.Sleep(100 * time.Millisecond)

	fx.feeClient.set(0, domain.ErrFeeFetchFailed)
	require.NoError(t, fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency:  currencyAddr,
		UnitPrice: "10.00",
		Quantity:  2,
	}))
	time.Sleep(100 * time.Millisecond)

	view, err := fx.uc.Get(c, id)
	require.NoError(t, err)
	assert.True(t, view.FeeDegraded)
	require.NotNil(t, view.FeeRate, "the stale rate must keep pricing the quote")
	assert.Equal(t, int64(250), view.FeeRate.ValuePerTenThousand)
	assert.Equal(t, "2050", view.TotalPayable)
}

func TestQuoteSessionConcurrentUpdatesStayConsistent(t *testing.T) {
	fx := newSessionFixture(t, 100, "5000.00")
	c := bCtx.Background()

	id, err := fx.uc.Create(c, makerAddr, 1, contractAddr, "7")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(quantity int64) {
			defer wg.Done()
			assert.NoError(t, fx.uc.UpdateContext(c, id, offer.ContextUpdate{
				Currency:  currencyAddr,
				UnitPrice: "10.00",
				Quantity:  quantity,
			}))
		}(i)
	}
	wg.Wait()
	time.Sleep(100 * time.Millisecond)

	// whichever update committed last, the rate must have been fetched
	// for that same context, never one it superseded
	view, err := fx.uc.Get(c, id)
	require.NoError(t, err)
	require.NotNil(t, view.FeeRate)
	assert.False(t, view.FeeDegraded)

	pc := fx.feeClient.lastContext()
	assert.Equal(t, strconv.FormatInt(pc.Quantity*1000, 10), view.TotalPrice)
}

func TestQuoteSessionUnaffordable(t *testing.T) {
	fx := newSessionFixture(t, 10, "10.00")
	c := bCtx.Background()

	id, err := fx.uc.Create(c, makerAddr, 1, contractAddr, "7")
	require.NoError(t, err)

	require.NoError(t, fx.uc.UpdateContext(c, id, offer.ContextUpdate{
		Currency:  currencyAddr,
		UnitPrice: "10.00",
		Quantity:  1,
	}))
	time.Sleep(100 * time.Millisecond)

	view, err := fx.uc.Get(c, id)
	require.NoError(t, err)
	assert.Equal(t, "1025", view.TotalPayable)
	assert.False(t, view.CanAfford)
}
