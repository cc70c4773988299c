package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) domain.CurrencyRepo {
	return &impl{q: q}
}

func (im *impl) FindOne(ctx ctx.Ctx, chainId domain.ChainId, address domain.Address) (*domain.Currency, error) {
	res := &domain.Currency{}
	selector := bson.M{
		"chainId": chainId,
		"address": address.ToLower(),
	}
	if err := im.q.FindOne(ctx, domain.TableCurrencies, selector, res); err == query.ErrNotFound {
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

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...domain.CurrencyFindAllOptionsFunc) ([]domain.Currency, error) {
	opts, err := domain.GetCurrencyFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("domain.GetCurrencyFindAllOptions failed")
		return nil, err
	}

	selector := bson.M{}
	if opts.ChainId != nil {
		selector["chainId"] = *opts.ChainId
	}
	if opts.IsNative != nil {
		selector["isNative"] = *opts.IsNative
	}

	res := []domain.Currency{}
	if err := im.q.Search(ctx, domain.TableCurrencies, 0, 0, "symbol", selector, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, c *domain.Currency) error {
	c.Address = c.Address.ToLower()
	selector := bson.M{
		"chainId": c.ChainId,
		"address": c.Address,
	}
	if err := im.q.Upsert(ctx, domain.TableCurrencies, selector, c); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
