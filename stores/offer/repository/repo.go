package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
	"github.com/tokenfront/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) offer.Repo {
	return &impl{q: q}
}

func (im *impl) FindOne(ctx ctx.Ctx, id string) (*offer.Offer, error) {
	res := &offer.Offer{}
	selector := bson.M{"id": id}
	if err := im.q.FindOne(ctx, domain.TableOffers, selector, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	opts, err := offer.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("offer.GetFindAllOptions failed")
		return nil, err
	}

	selector := bson.M{}
	if opts.ChainId != nil {
		selector["chainId"] = *opts.ChainId
	}
	if opts.ContractAddress != nil {
		selector["contractAddress"] = *opts.ContractAddress
	}
	if opts.TokenId != nil {
		selector["tokenID"] = *opts.TokenId
	}
	if opts.Maker != nil {
		selector["maker"] = *opts.Maker
	}
	if opts.Status != nil {
		selector["status"] = *opts.Status
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*offer.Offer{}
	if err := im.q.Search(ctx, domain.TableOffers, offset, limit, "-createdAt", selector, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Insert(ctx ctx.Ctx, o *offer.Offer) error {
	o.LowerCase()
	if err := im.q.Insert(ctx, domain.TableOffers, o); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  o.Id,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}
