package repository

import (
	"time"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/database/mongoclient"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) domain.BalanceRepo {
	return &impl{q: q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id domain.BalanceId) (*domain.Balance, error) {
	id.Currency = id.Currency.ToLower()
	id.Owner = id.Owner.ToLower()

	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := &domain.Balance{}
	if err := im.q.FindOne(ctx, domain.TableBalances, selector, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, b *domain.Balance) error {
	b.Currency = b.Currency.ToLower()
	b.Owner = b.Owner.ToLower()
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}

	selector, err := mongoclient.MakeBsonM(b.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Upsert(ctx, domain.TableBalances, selector, b); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
