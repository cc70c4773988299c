package usecase

import (
	"strconv"
	"time"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/keys"
	"github.com/tokenfront/goapi/service/cache"
	"github.com/tokenfront/goapi/service/cache/provider/primitive"
)

// currencies are reference data, they barely change
const cacheTtl = 10 * time.Minute

type CurrencyUseCaseCfg struct {
	Repo domain.CurrencyRepo
}

type impl struct {
	repo  domain.CurrencyRepo
	cache cache.Service
}

func New(cfg *CurrencyUseCaseCfg) domain.CurrencyUseCase {
	return &impl{
		repo: cfg.Repo,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   cacheTtl,
			Pfx:   keys.PfxCurrency,
			Cache: primitive.NewPrimitive("currency", 2),
		}),
	}
}

func cacheKey(chainId domain.ChainId, address domain.Address) string {
	return keys.RedisKey(strconv.FormatInt(int64(chainId), 10), address.ToLowerStr())
}

func (im *impl) FindOne(ctx ctx.Ctx, chainId domain.ChainId, address domain.Address) (*domain.Currency, error) {
	res := &domain.Currency{}
	err := im.cache.GetByFunc(ctx, cacheKey(chainId, address), res, func() (interface{}, error) {
		return im.repo.FindOne(ctx, chainId, address)
	})
	if err != nil {
		if err != domain.ErrNotFound {
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"address": address,
			}).Error("cache.GetByFunc failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...domain.CurrencyFindAllOptionsFunc) ([]domain.Currency, error) {
	return im.repo.FindAll(ctx, optFns...)
}

func (im *impl) Upsert(ctx ctx.Ctx, c *domain.Currency) error {
	if err := im.repo.Upsert(ctx, c); err != nil {
		return err
	}
	if err := im.cache.Del(ctx, cacheKey(c.ChainId, c.Address)); err != nil && err != cache.ErrNotFound {
		ctx.WithField("err", err).Warn("cache.Del failed")
	}
	return nil
}
