package asset

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tokenfront/goapi/domain"
)

// Filter is the content of the storefront's asset filter panel. Its
// query-string form is the canonical representation, shareable as a
// link, so serialization and parsing must round trip.
type Filter struct {
	Chains   []domain.ChainId `json:"chains"`
	Search   *string          `json:"search"`
	Currency *domain.Address  `json:"currency"`
	Decimals *int32           `json:"decimals"`
	MinPrice *string          `json:"minPrice"`
	MaxPrice *string          `json:"maxPrice"`
	Traits   []TraitFilter    `json:"traits"`
}

// TraitFilter selects assets carrying any of Values for trait Type
type TraitFilter struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

const (
	keyChains   = "chains"
	keySearch   = "search"
	keyCurrency = "currency"
	keyDecimals = "decimals"
	keyMinPrice = "minPrice"
	keyMaxPrice = "maxPrice"
	keyPage     = "page"
	keyLimit    = "limit"
	keyOrderBy  = "orderBy"

	traitKeyPrefix = "traits["
	traitKeySuffix = "]"
)

// ParseFilterQuery decodes a query string into a Filter. Unparseable
// chain ids, empty strings and non-numeric prices are dropped rather
// than rejected, a shared link should never 400 over one bad param.
func ParseFilterQuery(values url.Values) Filter {
	f := Filter{}

	for _, raw := range values[keyChains] {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			continue
		}
		f.Chains = append(f.Chains, domain.ChainId(id))
	}

	if s := values.Get(keySearch); s != "" {
		f.Search = &s
	}
	if c := values.Get(keyCurrency); c != "" {
		addr := domain.Address(c).ToLower()
		f.Currency = &addr
	}
	// decimals travel with the currency so a shared link can interpret
	// the price range in the currency's smallest unit
	if d := values.Get(keyDecimals); d != "" {
		if v, err := strconv.ParseInt(d, 10, 32); err == nil && v >= 0 {
			dec := int32(v)
			f.Decimals = &dec
		}
	}
	if p := values.Get(keyMinPrice); isPrice(p) {
		f.MinPrice = &p
	}
	if p := values.Get(keyMaxPrice); isPrice(p) {
		f.MaxPrice = &p
	}

	for key, vals := range values {
		if !strings.HasPrefix(key, traitKeyPrefix) || !strings.HasSuffix(key, traitKeySuffix) {
			continue
		}
		traitType := key[len(traitKeyPrefix) : len(key)-len(traitKeySuffix)]
		if traitType == "" {
			continue
		}
		tf := TraitFilter{Type: traitType}
		for _, v := range vals {
			if v != "" {
				tf.Values = append(tf.Values, v)
			}
		}
		if len(tf.Values) > 0 {
			f.Traits = append(f.Traits, tf)
		}
	}
	sort.Slice(f.Traits, func(i, j int) bool { return f.Traits[i].Type < f.Traits[j].Type })

	return f
}

func isPrice(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 0
}

// Query encodes the filter back into query params, omitting everything
// unset or empty
func (f Filter) Query() url.Values {
	values := url.Values{}

	for _, id := range f.Chains {
		values.Add(keyChains, strconv.FormatInt(int64(id), 10))
	}
	if f.Search != nil && *f.Search != "" {
		values.Set(keySearch, *f.Search)
	}
	if f.Currency != nil && !f.Currency.IsEmpty() {
		values.Set(keyCurrency, f.Currency.ToLowerStr())
	}
	if f.Decimals != nil && *f.Decimals >= 0 {
		values.Set(keyDecimals, strconv.FormatInt(int64(*f.Decimals), 10))
	}
	if f.MinPrice != nil && isPrice(*f.MinPrice) {
		values.Set(keyMinPrice, *f.MinPrice)
	}
	if f.MaxPrice != nil && isPrice(*f.MaxPrice) {
		values.Set(keyMaxPrice, *f.MaxPrice)
	}

	traits := make([]TraitFilter, len(f.Traits))
	copy(traits, f.Traits)
	sort.Slice(traits, func(i, j int) bool { return traits[i].Type < traits[j].Type })
	for _, tf := range traits {
		for _, v := range tf.Values {
			if v != "" {
				values.Add(traitKeyPrefix+tf.Type+traitKeySuffix, v)
			}
		}
	}

	return values
}

// Normalize drops everything Query would omit, so that
// ParseFilterQuery(f.Query()) equals f.Normalize()
func (f Filter) Normalize() Filter {
	return ParseFilterQuery(f.Query())
}

// Equal compares two filters by their canonical query encoding
func (f Filter) Equal(o Filter) bool {
	return f.Query().Encode() == o.Query().Encode()
}

// IsEmpty reports whether no filter content is set
func (f Filter) IsEmpty() bool {
	return len(f.Query()) == 0
}

const (
	DefaultLimit int32 = 20
	MaxLimit     int32 = 100
)

// PageParams is 1-indexed externally, the repository works in
// offset/limit
type PageParams struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
}

func DefaultPageParams() PageParams {
	return PageParams{Page: 1, Limit: DefaultLimit}
}

// ParsePageQuery coerces page/limit ints, falling back to defaults on
// junk and clamping limit
func ParsePageQuery(values url.Values) PageParams {
	p := DefaultPageParams()

	if raw := values.Get(keyPage); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v >= 1 {
			p.Page = int32(v)
		}
	}
	if raw := values.Get(keyLimit); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v >= 1 {
			p.Limit = int32(v)
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}

	return p
}

func (p PageParams) Offset() int32 {
	return (p.Page - 1) * p.Limit
}

// OrderBy is the listing sort order
type OrderBy string

const (
	OrderByCreatedAtDesc OrderBy = "createdAt_desc"
	OrderByCreatedAtAsc  OrderBy = "createdAt_asc"
	OrderByPriceAsc      OrderBy = "price_asc"
	OrderByPriceDesc     OrderBy = "price_desc"
)

// ToOrderBy maps a raw param to a known order, unknown values fall back
// to newest first
func ToOrderBy(s string) OrderBy {
	switch OrderBy(s) {
	case OrderByCreatedAtDesc, OrderByCreatedAtAsc, OrderByPriceAsc, OrderByPriceDesc:
		return OrderBy(s)
	}
	return OrderByCreatedAtDesc
}

// Sort returns the repository sort field and direction
func (o OrderBy) Sort() (string, domain.SortDir) {
	switch o {
	case OrderByCreatedAtAsc:
		return "createdAt", domain.SortDirAsc
	case OrderByPriceAsc:
		return "price", domain.SortDirAsc
	case OrderByPriceDesc:
		return "price", domain.SortDirDesc
	default:
		return "createdAt", domain.SortDirDesc
	}
}

// FilterState is the whole synchronized browsing state of one listing
// view. Content changes reset the page, panel visibility never does.
type FilterState struct {
	Filter       Filter     `json:"filter"`
	OrderBy      OrderBy    `json:"orderBy"`
	Page         PageParams `json:"page"`
	FiltersShown bool       `json:"filtersShown"`
}

func NewFilterState() FilterState {
	return FilterState{
		OrderBy: OrderByCreatedAtDesc,
		Page:    DefaultPageParams(),
	}
}

// SetFilter replaces the filter content, resetting to page 1 when the
// content actually changed
func (s *FilterState) SetFilter(f Filter) {
	if !s.Filter.Equal(f) {
		s.Page.Page = 1
	}
	s.Filter = f
}

func (s *FilterState) SetOrderBy(o OrderBy) {
	o = ToOrderBy(string(o))
	if s.OrderBy != o {
		s.Page.Page = 1
	}
	s.OrderBy = o
}

func (s *FilterState) SetPage(page int32) {
	if page < 1 {
		page = 1
	}
	s.Page.Page = page
}

// SetLimit changes the page size, any change moves back to page 1 since
// old page numbers no longer address the same window
func (s *FilterState) SetLimit(limit int32) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if s.Page.Limit != limit {
		s.Page = PageParams{Page: 1, Limit: limit}
	}
}

func (s *FilterState) ToggleFiltersShown() {
	s.FiltersShown = !s.FiltersShown
}

// Clear drops the filter content and returns to page 1. Panel
// visibility is orthogonal and survives.
func (s *FilterState) Clear() {
	s.Filter = Filter{}
	s.Page.Page = 1
}
