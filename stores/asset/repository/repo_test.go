package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/ptr"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
)

func TestBuildSelectorEmpty(t *testing.T) {
	selector, _, err := buildSelector(bCtx.Background())
	require.NoError(t, err)
	assert.Empty(t, selector)
}

func TestBuildSelector(t *testing.T) {
	selector, _, err := buildSelector(bCtx.Background(),
		asset.WithChainIds([]domain.ChainId{1, 137}),
		asset.WithSearch("punk (alpha)"),
		asset.WithCurrency("0x00000000000000000000000000000000000000BB"),
		asset.WithPriceGTE(1.5),
		asset.WithPriceLTE(9.5),
		asset.WithTraits([]asset.TraitFilter{
			{Type: "Background", Values: []string{"Red", "Blue"}},
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, bson.M{"$in": []domain.ChainId{1, 137}}, selector["chainId"])

	re, ok := selector["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `punk \(alpha\)`, re.Pattern, "search input must be matched literally")
	assert.Equal(t, "i", re.Options)

	assert.Equal(t, domain.Address("0x00000000000000000000000000000000000000bb"), selector["paymentToken"])
	assert.Equal(t, bson.M{"$gte": 1.5, "$lte": 9.5}, selector["price"])

	traits, ok := selector["traits"].(bson.M)
	require.True(t, ok)
	matches, ok := traits["$all"].([]bson.M)
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, bson.M{
		"$elemMatch": bson.M{
			"type":  "Background",
			"value": bson.M{"$in": []string{"Red", "Blue"}},
		},
	}, matches[0])
}

func TestSortKey(t *testing.T) {
	assert.Equal(t, "", sortKey(asset.SearchOptions{}))

	asc := domain.SortDirAsc
	desc := domain.SortDirDesc
	assert.Equal(t, "price", sortKey(asset.SearchOptions{SortBy: ptr.String("price"), SortDir: &asc}))
	assert.Equal(t, "-createdAt", sortKey(asset.SearchOptions{SortBy: ptr.String("createdAt"), SortDir: &desc}))
}
