package asset

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfront/goapi/base/ptr"
	"github.com/tokenfront/goapi/domain"
)

func addrPtr(s string) *domain.Address {
	a := domain.Address(s)
	return &a
}

func TestParseFilterQuery(t *testing.T) {
	values := url.Values{}
	values.Add("chains", "1")
	values.Add("chains", "56")
	values.Add("chains", "not-a-number")
	values.Set("search", "cool cats")
	values.Set("currency", "0xABCDEF0000000000000000000000000000000001")
	values.Set("decimals", "6")
	values.Set("minPrice", "0.5")
	values.Set("maxPrice", "junk")
	values.Add("traits[Background]", "Red")
	values.Add("traits[Background]", "Blue")
	values.Add("traits[Fur]", "Gold")
	values.Add("traits[]", "orphan")

	f := ParseFilterQuery(values)

	assert.Equal(t, []domain.ChainId{1, 56}, f.Chains)
	require.NotNil(t, f.Search)
	assert.Equal(t, "cool cats", *f.Search)
	require.NotNil(t, f.Currency)
	assert.Equal(t, domain.Address("0xabcdef0000000000000000000000000000000001"), *f.Currency)
	require.NotNil(t, f.Decimals)
	assert.Equal(t, int32(6), *f.Decimals)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, "0.5", *f.MinPrice)
	assert.Nil(t, f.MaxPrice, "non numeric price should be dropped")
	assert.Equal(t, []TraitFilter{
		{Type: "Background", Values: []string{"Red", "Blue"}},
		{Type: "Fur", Values: []string{"Gold"}},
	}, f.Traits)
}

func TestFilterQueryOmitsEmpty(t *testing.T) {
	f := Filter{
		Search:   ptr.String(""),
		MinPrice: ptr.String(""),
		Traits:   []TraitFilter{{Type: "Hat", Values: nil}},
	}
	assert.Equal(t, "", f.Query().Encode())
	assert.True(t, f.IsEmpty())
}

func TestFilterQueryParamNames(t *testing.T) {
	f := Filter{
		Chains:   []domain.ChainId{1, 137},
		Currency: addrPtr("0x00000000000000000000000000000000000000aa"),
		Decimals: ptr.Int32(18),
	}
	assert.Equal(t,
		"chains=1&chains=137&currency=0x00000000000000000000000000000000000000aa&decimals=18",
		f.Query().Encode())
}

func TestFilterRoundTrip(t *testing.T) {
	cases := []Filter{
		{},
		{Chains: []domain.ChainId{1}},
		{Search: ptr.String("dragon"), MinPrice: ptr.String("1.25")},
		{
			Chains:   []domain.ChainId{1, 137},
			Currency: addrPtr("0x00000000000000000000000000000000000000aa"),
			Decimals: ptr.Int32(18),
			Traits: []TraitFilter{
				{Type: "Fur", Values: []string{"Gold"}},
				{Type: "Background", Values: []string{"Red", "Blue"}},
			},
		},
	}

	for _, f := range cases {
		parsed := ParseFilterQuery(f.Query())
		assert.True(t, parsed.Equal(f.Normalize()), "round trip of %s", f.Query().Encode())
	}
}

func TestParsePageQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  PageParams
	}{
		{name: "defaults", query: "", want: PageParams{Page: 1, Limit: DefaultLimit}},
		{name: "explicit", query: "page=3&limit=50", want: PageParams{Page: 3, Limit: 50}},
		{name: "junk page", query: "page=abc&limit=10", want: PageParams{Page: 1, Limit: 10}},
		{name: "zero page", query: "page=0", want: PageParams{Page: 1, Limit: DefaultLimit}},
		{name: "limit clamped", query: "limit=9999", want: PageParams{Page: 1, Limit: MaxLimit}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			values, err := url.ParseQuery(c.query)
			require.NoError(t, err)
			assert.Equal(t, c.want, ParsePageQuery(values))
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	assert.Equal(t, int32(0), PageParams{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, int32(40), PageParams{Page: 3, Limit: 20}.Offset())
}

func TestFilterStatePageResets(t *testing.T) {
	s := NewFilterState()
	s.SetPage(5)

	// same content, page stays
	s.SetFilter(Filter{})
	assert.Equal(t, int32(5), s.Page.Page)

	// content change resets
	s.SetFilter(Filter{Chains: []domain.ChainId{1}})
	assert.Equal(t, int32(1), s.Page.Page)

	s.SetPage(4)
	s.SetOrderBy(OrderByPriceAsc)
	assert.Equal(t, int32(1), s.Page.Page)

	s.SetPage(4)
	s.SetOrderBy(OrderByPriceAsc)
	assert.Equal(t, int32(4), s.Page.Page, "same order keeps page")

	s.SetLimit(50)
	assert.Equal(t, int32(1), s.Page.Page)
	assert.Equal(t, int32(50), s.Page.Limit)
}

func TestFilterStateClear(t *testing.T) {
	s := NewFilterState()
	s.ToggleFiltersShown()
	s.SetFilter(Filter{Search: ptr.String("dragon")})
	s.SetPage(7)

	s.Clear()

	assert.True(t, s.Filter.IsEmpty())
	assert.Equal(t, int32(1), s.Page.Page)
	assert.True(t, s.FiltersShown, "clearing content must not touch panel visibility")

	s.ToggleFiltersShown()
	assert.False(t, s.FiltersShown)
}

func TestToOrderBy(t *testing.T) {
	assert.Equal(t, OrderByPriceAsc, ToOrderBy("price_asc"))
	assert.Equal(t, OrderByCreatedAtDesc, ToOrderBy("bogus"))

	field, dir := OrderByPriceDesc.Sort()
	assert.Equal(t, "price", field)
	assert.Equal(t, domain.SortDirDesc, dir)
}
