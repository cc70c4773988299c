package usecase

import (
	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/money"
	"github.com/tokenfront/goapi/domain"
)

type BalanceUseCaseCfg struct {
	BalanceRepo domain.BalanceRepo
	Currency    domain.CurrencyUseCase
}

type impl struct {
	repo     domain.BalanceRepo
	currency domain.CurrencyUseCase
}

func New(cfg *BalanceUseCaseCfg) domain.BalanceUseCase {
	return &impl{
		repo:     cfg.BalanceRepo,
		currency: cfg.Currency,
	}
}

// Get returns the holding as money in the currency's precision. A pair
// the indexer has not written yet is not an error, the caller sees nil
// and treats the balance as unknown.
func (im *impl) Get(ctx ctx.Ctx, id domain.BalanceId) (*money.Money, error) {
	bal, err := im.repo.FindOne(ctx, id)
	if err == domain.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	cur, err := im.currency.FindOne(ctx, id.ChainId, id.Currency)
	if err == domain.ErrNotFound {
		ctx.WithFields(log.Fields{
			"chainId":  id.ChainId,
			"currency": id.Currency,
		}).Warn("balance exists for unlisted currency")
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	m, err := money.ParseRaw(bal.RawBalance, cur.Decimals)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":        err,
			"rawBalance": bal.RawBalance,
		}).Error("money.ParseRaw failed")
		return nil, err
	}
	return &m, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, b *domain.Balance) error {
	return im.repo.Upsert(ctx, b)
}
