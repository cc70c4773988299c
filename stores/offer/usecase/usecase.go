package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/metrics"
	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
	"github.com/tokenfront/goapi/domain/offer"
	"github.com/tokenfront/goapi/service/orderbook"
)

const defaultMaxExpiry = 30 * 24 * time.Hour

type OfferUseCaseCfg struct {
	OfferRepo offer.Repo
	Asset     asset.UseCase
	Currency  domain.CurrencyUseCase
	Balance   domain.BalanceUseCase
	Fees      offer.FeeUseCase
	Orderbook orderbook.Client

	// MaxExpiry bounds how far in the future an offer may expire
	MaxExpiry time.Duration
}

type impl struct {
	repo      offer.Repo
	asset     asset.UseCase
	currency  domain.CurrencyUseCase
	balance   domain.BalanceUseCase
	fees      offer.FeeUseCase
	orderbook orderbook.Client
	maxExpiry time.Duration
	met       metrics.Service
}

func New(cfg *OfferUseCaseCfg) offer.UseCase {
	maxExpiry := cfg.MaxExpiry
	if maxExpiry <= 0 {
		maxExpiry = defaultMaxExpiry
	}
	return &impl{
		repo:      cfg.OfferRepo,
		asset:     cfg.Asset,
		currency:  cfg.Currency,
		balance:   cfg.Balance,
		fees:      cfg.Fees,
		orderbook: cfg.Orderbook,
		maxExpiry: maxExpiry,
		met:       metrics.New("offer"),
	}
}

// Submit revalidates the whole form server side, never trusting the
// client's quote, and only persists the offer after the upstream
// orderbook accepted it.
func (im *impl) Submit(ctx ctx.Ctx, payload offer.SubmitPayload) (*offer.Offer, error) {
	defer im.met.BumpTime("submit.time").End()

	now := time.Now()

	if payload.Quantity < 1 {
		return nil, xerrors.Errorf("quantity %d: %w", payload.Quantity, domain.ErrBadParamInput)
	}
	if !payload.ExpiredAt.After(now) {
		return nil, xerrors.Errorf("expiry in the past: %w", domain.ErrBadParamInput)
	}
	if payload.ExpiredAt.After(now.Add(im.maxExpiry)) {
		return nil, xerrors.Errorf("expiry too far out: %w", domain.ErrBadParamInput)
	}

	cur, err := im.currency.FindOne(ctx, payload.ChainId, payload.Currency)
	if err == domain.ErrNotFound {
		return nil, xerrors.Errorf("unknown currency %s: %w", payload.Currency, domain.ErrBadParamInput)
	} else if err != nil {
		return nil, err
	}

	a, err := im.asset.FindOne(ctx, asset.Id{
		ChainId:         payload.ChainId,
		ContractAddress: payload.ContractAddress,
		TokenId:         payload.TokenId,
	})
	if err != nil {
		return nil, err
	}

	edition, err := a.Edition()
	if err != nil {
		return nil, err
	}
	if payload.Quantity > edition.MaxQuantity() {
		return nil, xerrors.Errorf("quantity %d exceeds %d: %w", payload.Quantity, edition.MaxQuantity(), domain.ErrBadParamInput)
	}
	if single, ok := edition.(asset.SingleEdition); ok && single.Owner.Equals(payload.Maker) {
		return nil, xerrors.Errorf("maker already owns the token: %w", domain.ErrBadParamInput)
	}

	unitPrice, err := money.Parse(payload.UnitPrice, cur.Decimals)
	if err != nil {
		return nil, err
	}
	if unitPrice.IsZero() {
		return nil, xerrors.Errorf("zero unit price: %w", domain.ErrInvalidAmount)
	}

	rate, err := im.fees.GetRate(ctx, offer.PricingContext{
		ChainId:         payload.ChainId,
		ContractAddress: payload.ContractAddress,
		TokenId:         payload.TokenId,
		Currency:        payload.Currency,
		UnitPrice:       unitPrice,
		Quantity:        payload.Quantity,
	})
	if err != nil {
		return nil, err
	}

	quote, err := offer.ComputeFees(unitPrice, payload.Quantity, rate.ValuePerTenThousand)
	if err != nil {
		return nil, err
	}

	bal, err := im.balance.Get(ctx, domain.BalanceId{
		ChainId:  payload.ChainId,
		Currency: payload.Currency,
		Owner:    payload.Maker,
	})
	if err != nil {
		return nil, err
	}
	if !offer.CanAfford(bal, quote.TotalPayable) {
		return nil, xerrors.Errorf("payable %s: %w", quote.TotalPayable.RawString(), domain.ErrInsufficientBalance)
	}

	o := &offer.Offer{
		Id:                uuid.NewString(),
		ChainId:           payload.ChainId,
		ContractAddress:   payload.ContractAddress,
		TokenId:           payload.TokenId,
		Maker:             payload.Maker,
		Currency:          payload.Currency,
		UnitPrice:         unitPrice.RawString(),
		Quantity:          payload.Quantity,
		TotalPrice:        quote.TotalPrice.RawString(),
		TotalFee:          quote.TotalFee.RawString(),
		TotalPayable:      quote.TotalPayable.RawString(),
		FeePerTenThousand: rate.ValuePerTenThousand,
		Status:            offer.StatusSubmitted,
		ExpiredAt:         payload.ExpiredAt,
		CreatedAt:         now,
	}

	upstreamId, err := im.orderbook.SubmitOffer(ctx, o)
	if err != nil {
		return nil, err
	}
	o.UpstreamId = upstreamId

	if err := im.repo.Insert(ctx, o); err != nil {
		// the orderbook accepted the offer already, losing the local
		// record only degrades the activity page
		ctx.WithFields(log.Fields{
			"err":        err,
			"id":         o.Id,
			"upstreamId": upstreamId,
		}).Error("repo.Insert failed after upstream accept")
		return nil, err
	}

	im.met.BumpSum("submit.accepted", 1)
	return o, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	return im.repo.FindAll(ctx, optFns...)
}
