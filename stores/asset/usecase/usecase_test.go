package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
)

type fakeRepo struct {
	items []*asset.Asset
	count int

	lastFindAll asset.SearchOptions
	lastCount   asset.SearchOptions
}

func (f *fakeRepo) FindOne(c bCtx.Ctx, id asset.Id) (*asset.Asset, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) FindAll(c bCtx.Ctx, optFns ...asset.SearchOptionsFunc) ([]*asset.Asset, error) {
	opts, err := asset.GetSearchOptions(optFns...)
	if err != nil {
		return nil, err
	}
	f.lastFindAll = opts

	offset, limit := 0, len(f.items)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	if offset > len(f.items) {
		return []*asset.Asset{}, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], nil
}

func (f *fakeRepo) Count(c bCtx.Ctx, optFns ...asset.SearchOptionsFunc) (int, error) {
	opts, err := asset.GetSearchOptions(optFns...)
	if err != nil {
		return 0, err
	}
	f.lastCount = opts
	return f.count, nil
}

func (f *fakeRepo) Upsert(c bCtx.Ctx, a *asset.Asset) error {
	return nil
}

func makeAssets(n int) []*asset.Asset {
	items := make([]*asset.Asset, n)
	for i := range items {
		items[i] = &asset.Asset{
			ChainId:         1,
			ContractAddress: "0x00000000000000000000000000000000000000aa",
			TokenType:       domain.TokenType721,
		}
	}
	return items
}

func TestSearchMiddlePage(t *testing.T) {
	repo := &fakeRepo{items: makeAssets(45), count: 45}
	uc := New(&AssetUseCaseCfg{Repo: repo})

	res, err := uc.Search(bCtx.Background(), asset.Filter{}, asset.OrderByCreatedAtDesc, asset.PageParams{Page: 2, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, res.Items, 20)
	assert.Equal(t, 45, res.Count)
	assert.Equal(t, int32(2), res.Page)
	assert.True(t, res.HasNextPage)
	assert.True(t, res.HasPreviousPage)

	require.NotNil(t, repo.lastFindAll.Offset)
	assert.Equal(t, int32(20), *repo.lastFindAll.Offset)
	require.NotNil(t, repo.lastFindAll.SortBy)
	assert.Equal(t, "createdAt", *repo.lastFindAll.SortBy)
}

func TestSearchLastPage(t *testing.T) {
	repo := &fakeRepo{items: makeAssets(45), count: 45}
	uc := New(&AssetUseCaseCfg{Repo: repo})

	res, err := uc.Search(bCtx.Background(), asset.Filter{}, asset.OrderByPriceAsc, asset.PageParams{Page: 3, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, res.Items, 5)
	assert.False(t, res.HasNextPage)
	assert.True(t, res.HasPreviousPage)

	require.NotNil(t, repo.lastFindAll.SortBy)
	assert.Equal(t, "price", *repo.lastFindAll.SortBy)
	require.NotNil(t, repo.lastFindAll.SortDir)
	assert.Equal(t, domain.SortDirAsc, *repo.lastFindAll.SortDir)
}

func TestSearchFirstPage(t *testing.T) {
	repo := &fakeRepo{items: makeAssets(5), count: 5}
	uc := New(&AssetUseCaseCfg{Repo: repo})

	res, err := uc.Search(bCtx.Background(), asset.Filter{}, asset.OrderByCreatedAtDesc, asset.PageParams{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.False(t, res.HasNextPage)
	assert.False(t, res.HasPreviousPage)
}

func TestSearchNormalizesFilter(t *testing.T) {
	repo := &fakeRepo{items: makeAssets(1), count: 1}
	uc := New(&AssetUseCaseCfg{Repo: repo})

	junk := "not-a-number"
	min := "1.5"
	_, err := uc.Search(bCtx.Background(), asset.Filter{
		MinPrice: &min,
		MaxPrice: &junk,
	}, asset.OrderByCreatedAtDesc, asset.DefaultPageParams())
	require.NoError(t, err)

	require.NotNil(t, repo.lastCount.PriceGTE)
	assert.Equal(t, 1.5, *repo.lastCount.PriceGTE)
	assert.Nil(t, repo.lastCount.PriceLTE, "junk max price must be dropped, not sent to the db")
}

func TestSearchClampsBadPage(t *testing.T) {
	repo := &fakeRepo{items: makeAssets(3), count: 3}
	uc := New(&AssetUseCaseCfg{Repo: repo})

	res, err := uc.Search(bCtx.Background(), asset.Filter{}, asset.OrderByCreatedAtDesc, asset.PageParams{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, int32(1), res.Page)
	assert.Equal(t, asset.DefaultLimit, res.Limit)
}
