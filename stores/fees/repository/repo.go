package repository

import (
	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/database/mongoclient"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
	"github.com/tokenfront/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) offer.FeeOverrideRepo {
	return &impl{q: q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id offer.FeeOverrideId) (*offer.FeeOverride, error) {
	id.ContractAddress = id.ContractAddress.ToLower()

	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := &offer.FeeOverride{}
	if err := im.q.FindOne(ctx, domain.TableFeeRates, selector, res); err == query.ErrNotFound {
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

func (im *impl) Upsert(ctx ctx.Ctx, f *offer.FeeOverride) error {
	f.ContractAddress = f.ContractAddress.ToLower()

	selector, err := mongoclient.MakeBsonM(f.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Upsert(ctx, domain.TableFeeRates, selector, f); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
