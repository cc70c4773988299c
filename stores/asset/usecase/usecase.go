package usecase

import (
	"strconv"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain/asset"
)

type AssetUseCaseCfg struct {
	Repo asset.Repo
}

type impl struct {
	repo asset.Repo
}

func New(cfg *AssetUseCaseCfg) asset.UseCase {
	return &impl{repo: cfg.Repo}
}

func (im *impl) FindOne(ctx ctx.Ctx, id asset.Id) (*asset.Asset, error) {
	return im.repo.FindOne(ctx, id)
}

// Search runs the filter panel query. The filter is normalized first so
// a state parsed from a shared link and one built in the ui hit the
// same cache keys and selectors.
func (im *impl) Search(ctx ctx.Ctx, filter asset.Filter, orderBy asset.OrderBy, page asset.PageParams) (*asset.SearchResult, error) {
	filter = filter.Normalize()
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = asset.DefaultLimit
	}
	if page.Limit > asset.MaxLimit {
		page.Limit = asset.MaxLimit
	}

	opts := searchOptions(filter)

	count, err := im.repo.Count(ctx, opts...)
	if err != nil {
		return nil, err
	}

	sortBy, sortDir := orderBy.Sort()
	opts = append(opts,
		asset.WithSort(sortBy, sortDir),
		asset.WithPagination(page.Offset(), page.Limit),
	)

	items, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &asset.SearchResult{
		Items:           items,
		Count:           count,
		Page:            page.Page,
		Limit:           page.Limit,
		HasNextPage:     int(page.Offset())+len(items) < count,
		HasPreviousPage: page.Page > 1,
	}, nil
}

func searchOptions(filter asset.Filter) []asset.SearchOptionsFunc {
	opts := []asset.SearchOptionsFunc{}

	if len(filter.Chains) > 0 {
		opts = append(opts, asset.WithChainIds(filter.Chains))
	}
	if filter.Search != nil {
		opts = append(opts, asset.WithSearch(*filter.Search))
	}
	if filter.Currency != nil {
		opts = append(opts, asset.WithCurrency(*filter.Currency))
	}
	if filter.MinPrice != nil {
		if v, err := strconv.ParseFloat(*filter.MinPrice, 64); err == nil {
			opts = append(opts, asset.WithPriceGTE(v))
		}
	}
	if filter.MaxPrice != nil {
		if v, err := strconv.ParseFloat(*filter.MaxPrice, 64); err == nil {
			opts = append(opts, asset.WithPriceLTE(v))
		}
	}
	if len(filter.Traits) > 0 {
		opts = append(opts, asset.WithTraits(filter.Traits))
	}

	return opts
}
