package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
	"github.com/tokenfront/goapi/domain/offer"
	"github.com/tokenfront/goapi/service/feeclient"
)

const (
	defaultSessionTtl    = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

type QuoteSessionUseCaseCfg struct {
	FeeClient feeclient.Client
	Asset     asset.UseCase
	Currency  domain.CurrencyUseCase
	Balance   domain.BalanceUseCase

	// Debounce is the settle window of each session's fee fetcher
	Debounce time.Duration

	// SessionTtl evicts sessions idle for longer, the form was abandoned
	SessionTtl    time.Duration
	SweepInterval time.Duration
}

// quoteSession is one live offer form. The asset identity is fixed at
// creation, only the pricing inputs move.
type quoteSession struct {
	maker     domain.Address
	edition   asset.Edition
	pc        offer.PricingContext
	fetcher   *feeclient.DebouncedFetcher
	updatedAt time.Time
}

type sessionImpl struct {
	feeClient feeclient.Client
	asset     asset.UseCase
	currency  domain.CurrencyUseCase
	balance   domain.BalanceUseCase
	debounce  time.Duration
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*quoteSession

	sweepPool *goroutines.Pool
}

func NewQuoteSession(cfg *QuoteSessionUseCaseCfg) offer.QuoteSessionUseCase {
	ttl := cfg.SessionTtl
	if ttl <= 0 {
		ttl = defaultSessionTtl
	}
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	im := &sessionImpl{
		feeClient: cfg.FeeClient,
		asset:     cfg.Asset,
		currency:  cfg.Currency,
		balance:   cfg.Balance,
		debounce:  cfg.Debounce,
		ttl:       ttl,
		sessions:  map[string]*quoteSession{},
		sweepPool: goroutines.NewPool(1, goroutines.WithTaskQueueLength(1)),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			// a slow sweep skips ticks instead of stacking up
			im.sweepPool.ScheduleWithTimeout(time.Millisecond, im.sweep)
		}
	}()

	return im
}

func (im *sessionImpl) sweep() {
	cutoff := time.Now().Add(-im.ttl)

	im.mu.Lock()
	defer im.mu.Unlock()
	for id, s := range im.sessions {
		if s.updatedAt.Before(cutoff) {
			s.fetcher.Close()
			delete(im.sessions, id)
		}
	}
}

func (im *sessionImpl) get(id string) (*quoteSession, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	s, ok := im.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (im *sessionImpl) Create(ctx ctx.Ctx, maker domain.Address, chainId domain.ChainId, contractAddress domain.Address, tokenId domain.TokenId) (string, error) {
	a, err := im.asset.FindOne(ctx, asset.Id{
		ChainId:         chainId,
		ContractAddress: contractAddress,
		TokenId:         tokenId,
	})
	if err != nil {
		return "", err
	}

	edition, err := a.Edition()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	s := &quoteSession{
		maker:   maker.ToLower(),
		edition: edition,
		pc: offer.PricingContext{
			ChainId:         chainId,
			ContractAddress: contractAddress.ToLower(),
			TokenId:         tokenId,
		},
		fetcher:   feeclient.NewDebouncedFetcher(im.feeClient, im.debounce),
		updatedAt: time.Now(),
	}

	im.mu.Lock()
	im.sessions[id] = s
	im.mu.Unlock()

	ctx.WithFields(log.Fields{
		"sessionId":       id,
		"chainId":         chainId,
		"contractAddress": contractAddress,
		"tokenId":         tokenId,
	}).Info("quote session created")
	return id, nil
}

// UpdateContext applies one form keystroke. Validation failures leave
// the previous context untouched, the fetcher never sees an invalid
// pricing context.
func (im *sessionImpl) UpdateContext(ctx ctx.Ctx, id string, upd offer.ContextUpdate) error {
	s, err := im.get(id)
	if err != nil {
		return err
	}

	if upd.Quantity < 0 {
		return xerrors.Errorf("quantity %d: %w", upd.Quantity, domain.ErrBadParamInput)
	}
	if upd.Quantity > s.edition.MaxQuantity() {
		return xerrors.Errorf("quantity %d exceeds %d: %w", upd.Quantity, s.edition.MaxQuantity(), domain.ErrBadParamInput)
	}

	pc := s.pc
	pc.Quantity = upd.Quantity

	if upd.Currency.IsEmpty() {
		pc.Currency = ""
		pc.UnitPrice = money.Zero(0)
	} else {
		cur, err := im.currency.FindOne(ctx, pc.ChainId, upd.Currency)
		if err == domain.ErrNotFound {
			return xerrors.Errorf("unknown currency %s: %w", upd.Currency, domain.ErrBadParamInput)
		} else if err != nil {
			return err
		}

		pc.Currency = upd.Currency.ToLower()
		if upd.UnitPrice == "" {
			pc.UnitPrice = money.Zero(cur.Decimals)
		} else {
			unit, err := money.Parse(upd.UnitPrice, cur.Decimals)
			if err != nil {
				return err
			}
			pc.UnitPrice = unit
		}
	}

	// the fetcher must see contexts in commit order, so arming it
	// happens under the same lock as the commit. Update only restarts
	// a timer, it never blocks.
	im.mu.Lock()
	s.pc = pc
	s.updatedAt = time.Now()
	s.fetcher.Update(ctx, pc)
	im.mu.Unlock()

	return nil
}

// Get composes the live quote from the session's last pricing context
// and the fetcher's state. A failed fee refresh still quotes from the
// stale rate, flagged as degraded.
func (im *sessionImpl) Get(ctx ctx.Ctx, id string) (*offer.QuoteView, error) {
	s, err := im.get(id)
	if err != nil {
		return nil, err
	}

	im.mu.Lock()
	pc := s.pc
	maker := s.maker
	updatedAt := s.updatedAt
	im.mu.Unlock()

	st := s.fetcher.Snapshot()
	var ratePerTenThousand int64
	if st.Rate != nil {
		ratePerTenThousand = st.Rate.ValuePerTenThousand
	}

	quote, err := offer.ComputeFees(pc.UnitPrice, pc.Quantity, ratePerTenThousand)
	if err != nil {
		return nil, err
	}

	var bal *money.Money
	if pc.HasCurrency() {
		bal, err = im.balance.Get(ctx, domain.BalanceId{
			ChainId:  pc.ChainId,
			Currency: pc.Currency,
			Owner:    maker,
		})
		if err != nil {
			return nil, err
		}
	}

	return &offer.QuoteView{
		SessionId:    id,
		TotalPrice:   quote.TotalPrice.RawString(),
		TotalFee:     quote.TotalFee.RawString(),
		TotalPayable: quote.TotalPayable.RawString(),
		Display:      quote.TotalPayable.Display(),
		FeeRate:      st.Rate,
		FeeDegraded:  st.Err != nil,
		CanAfford:    offer.CanAfford(bal, quote.TotalPayable),
		UpdatedAt:    updatedAt,
	}, nil
}

func (im *sessionImpl) Delete(ctx ctx.Ctx, id string) error {
	im.mu.Lock()
	s, ok := im.sessions[id]
	delete(im.sessions, id)
	im.mu.Unlock()

	if !ok {
		return domain.ErrNotFound
	}
	s.fetcher.Close()
	return nil
}
