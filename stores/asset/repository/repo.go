package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/database/mongoclient"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
	"github.com/tokenfront/goapi/service/query"
)

type impl struct {
	q query.Mongo
}

func New(q query.Mongo) asset.Repo {
	return &impl{q: q}
}

func buildSelector(ctx ctx.Ctx, optFns ...asset.SearchOptionsFunc) (bson.M, asset.SearchOptions, error) {
	opts, err := asset.GetSearchOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("asset.GetSearchOptions failed")
		return nil, opts, err
	}

	selector := bson.M{}

	if len(opts.ChainIds) > 0 {
		selector["chainId"] = bson.M{"$in": opts.ChainIds}
	}
	if opts.Search != nil && *opts.Search != "" {
		selector["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(*opts.Search), Options: "i"}
	}
	if opts.Currency != nil {
		selector["paymentToken"] = *opts.Currency
	}
	if opts.PriceGTE != nil || opts.PriceLTE != nil {
		rng := bson.M{}
		if opts.PriceGTE != nil {
			rng["$gte"] = *opts.PriceGTE
		}
		if opts.PriceLTE != nil {
			rng["$lte"] = *opts.PriceLTE
		}
		selector["price"] = rng
	}
	if len(opts.Traits) > 0 {
		matches := make([]bson.M, 0, len(opts.Traits))
		for _, tf := range opts.Traits {
			matches = append(matches, bson.M{
				"$elemMatch": bson.M{
					"type":  tf.Type,
					"value": bson.M{"$in": tf.Values},
				},
			})
		}
		selector["traits"] = bson.M{"$all": matches}
	}
	if len(opts.Addresses) > 0 {
		lowered := make([]domain.Address, 0, len(opts.Addresses))
		for _, a := range opts.Addresses {
			lowered = append(lowered, a.ToLower())
		}
		selector["contractAddress"] = bson.M{"$in": lowered}
	}

	return selector, opts, nil
}

func sortKey(opts asset.SearchOptions) string {
	if opts.SortBy == nil {
		return ""
	}
	if opts.SortDir != nil && *opts.SortDir == domain.SortDirDesc {
		return "-" + *opts.SortBy
	}
	return *opts.SortBy
}

func (im *impl) FindOne(ctx ctx.Ctx, id asset.Id) (*asset.Asset, error) {
	id.ContractAddress = id.ContractAddress.ToLower()

	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := &asset.Asset{}
	if err := im.q.FindOne(ctx, domain.TableAssets, selector, res); err == query.ErrNotFound {
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

func (im *impl) FindAll(ctx ctx.Ctx, optFns ...asset.SearchOptionsFunc) ([]*asset.Asset, error) {
	selector, opts, err := buildSelector(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*asset.Asset{}
	if err := im.q.Search(ctx, domain.TableAssets, offset, limit, sortKey(opts), selector, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) Count(ctx ctx.Ctx, optFns ...asset.SearchOptionsFunc) (int, error) {
	selector, _, err := buildSelector(ctx, optFns...)
	if err != nil {
		return 0, err
	}

	n, err := im.q.Count(ctx, domain.TableAssets, selector)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

func (im *impl) Upsert(ctx ctx.Ctx, a *asset.Asset) error {
	a.ContractAddress = a.ContractAddress.ToLower()
	a.Owner = a.Owner.ToLower()
	if a.PaymentToken != nil {
		a.PaymentToken = a.PaymentToken.ToLowerPtr()
	}

	selector, err := mongoclient.MakeBsonM(a.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Upsert(ctx, domain.TableAssets, selector, a); err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}
