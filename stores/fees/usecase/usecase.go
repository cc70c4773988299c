package usecase

import (
	"strconv"
	"time"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/keys"
	"github.com/tokenfront/goapi/domain/offer"
	"github.com/tokenfront/goapi/service/redis"
)

const defaultCacheTtl = time.Minute

type FeeUseCaseCfg struct {
	Repo  offer.FeeOverrideRepo
	Redis redis.Service

	// DefaultRate applies to collections without an override
	DefaultRate int64
	CacheTtl    time.Duration
}

type impl struct {
	repo        offer.FeeOverrideRepo
	redis       redis.Service
	defaultRate int64
	cacheTtl    time.Duration
}

func New(cfg *FeeUseCaseCfg) offer.FeeUseCase {
	ttl := cfg.CacheTtl
	if ttl <= 0 {
		ttl = defaultCacheTtl
	}
	return &impl{
		repo:        cfg.Repo,
		redis:       cfg.Redis,
		defaultRate: cfg.DefaultRate,
		cacheTtl:    ttl,
	}
}

// GetRate resolves the fee for a pricing context. The rate only depends
// on the collection today, but the whole context comes in so rates can
// start depending on currency or size without an interface change.
func (im *impl) GetRate(ctx ctx.Ctx, pc offer.PricingContext) (*offer.FeeRate, error) {
	key := keys.RedisKey(
		keys.PfxFeeRate,
		strconv.FormatInt(int64(pc.ChainId), 10),
		pc.ContractAddress.ToLowerStr(),
	)

	if raw, err := im.redis.Get(ctx, key); err == nil {
		if rate, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return &offer.FeeRate{ValuePerTenThousand: rate}, nil
		}
	} else if err != redis.ErrNotFound {
		ctx.WithField("err", err).Warn("redis.Get failed")
	}

	rate := im.defaultRate
	override, err := im.repo.FindOne(ctx, offer.FeeOverrideId{
		ChainId:         pc.ChainId,
		ContractAddress: pc.ContractAddress,
	})
	if err == nil {
		rate = override.ValuePerTenThousand
	} else if err != domain.ErrNotFound {
		ctx.WithFields(log.Fields{
			"err":             err,
			"chainId":         pc.ChainId,
			"contractAddress": pc.ContractAddress,
		}).Error("repo.FindOne failed")
		return nil, err
	}

	if err := im.redis.Set(ctx, key, []byte(strconv.FormatInt(rate, 10)), im.cacheTtl); err != nil {
		ctx.WithField("err", err).Warn("redis.Set failed")
	}

	return &offer.FeeRate{ValuePerTenThousand: rate}, nil
}
