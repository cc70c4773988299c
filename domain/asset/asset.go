package asset

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain"
)

type Id struct {
	ChainId         domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId" bson:"tokenID"`
}

// Trait is one attribute of an asset, e.g. {Type: "Background", Value: "Red"}
type Trait struct {
	Type  string `json:"type" bson:"type"`
	Value string `json:"value" bson:"value"`
}

// Asset is a listed token. Owner is meaningful for single-edition tokens
// and Supply for multi-edition ones, Edition() exposes whichever applies.
type Asset struct {
	ChainId         domain.ChainId   `json:"chainId" bson:"chainId"`
	ContractAddress domain.Address   `json:"contractAddress" bson:"contractAddress"`
	TokenId         domain.TokenId   `json:"tokenId" bson:"tokenID"`
	TokenType       domain.TokenType `json:"tokenType" bson:"tokenType"`
	Name            string           `json:"name" bson:"name"`
	ImageUrl        string           `json:"imageUrl" bson:"imageURL"`
	Owner           domain.Address   `json:"owner" bson:"owner"`
	Supply          int64            `json:"supply" bson:"supply"`
	Price           *float64         `json:"price" bson:"price"`
	PaymentToken    *domain.Address  `json:"paymentToken" bson:"paymentToken"`
	Traits          []Trait          `json:"traits" bson:"traits"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`
}

func (a *Asset) ToId() *Id {
	return &Id{
		ChainId:         a.ChainId,
		ContractAddress: a.ContractAddress,
		TokenId:         a.TokenId,
	}
}

// Edition classifies the asset by token standard. The switch is
// exhaustive over supported standards so an unindexed type fails loudly
// instead of defaulting to a quantity bound of one.
func (a *Asset) Edition() (Edition, error) {
	switch a.TokenType {
	case domain.TokenType721:
		return SingleEdition{Owner: a.Owner}, nil
	case domain.TokenType1155:
		return MultiEdition{Supply: a.Supply}, nil
	default:
		return nil, xerrors.Errorf("token type %d: %w", a.TokenType, domain.ErrBadParamInput)
	}
}

// Edition is a sealed union of the two ownership models
type Edition interface {
	isEdition()
	// MaxQuantity is the upper bound for an offer's quantity
	MaxQuantity() int64
}

// SingleEdition is a one-of-one token held by a single owner
type SingleEdition struct {
	Owner domain.Address
}

func (SingleEdition) isEdition() {}

func (SingleEdition) MaxQuantity() int64 { return 1 }

// MultiEdition is a token with fungible copies
type MultiEdition struct {
	Supply int64
}

func (MultiEdition) isEdition() {}

func (e MultiEdition) MaxQuantity() int64 { return e.Supply }

type SearchOptions struct {
	ChainIds  []domain.ChainId
	Search    *string
	Currency  *domain.Address
	PriceGTE  *float64
	PriceLTE  *float64
	Traits    []TraitFilter
	Offset    *int32
	Limit     *int32
	SortBy    *string
	SortDir   *domain.SortDir
	Addresses []domain.Address
}

type SearchOptionsFunc func(*SearchOptions) error

func GetSearchOptions(opts ...SearchOptionsFunc) (SearchOptions, error) {
	res := SearchOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainIds(chainIds []domain.ChainId) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.ChainIds = chainIds
		return nil
	}
}

func WithSearch(search string) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.Search = &search
		return nil
	}
}

func WithCurrency(currency domain.Address) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.Currency = currency.ToLowerPtr()
		return nil
	}
}

func WithPriceGTE(p float64) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.PriceGTE = &p
		return nil
	}
}

func WithPriceLTE(p float64) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.PriceLTE = &p
		return nil
	}
}

func WithTraits(traits []TraitFilter) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.Traits = traits
		return nil
	}
}

func WithPagination(offset int32, limit int32) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sortBy string, sortDir domain.SortDir) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.SortBy = &sortBy
		options.SortDir = &sortDir
		return nil
	}
}

func WithAddresses(addresses []domain.Address) SearchOptionsFunc {
	return func(options *SearchOptions) error {
		options.Addresses = addresses
		return nil
	}
}

// SearchResult is one page of assets plus paging signals
type SearchResult struct {
	Items           []*Asset `json:"items"`
	Count           int      `json:"count"`
	Page            int32    `json:"page"`
	Limit           int32    `json:"limit"`
	HasNextPage     bool     `json:"hasNextPage"`
	HasPreviousPage bool     `json:"hasPreviousPage"`
}

type Repo interface {
	FindOne(ctx.Ctx, Id) (*Asset, error)
	FindAll(ctx.Ctx, ...SearchOptionsFunc) ([]*Asset, error)
	Count(ctx.Ctx, ...SearchOptionsFunc) (int, error)
	Upsert(ctx.Ctx, *Asset) error
}

type UseCase interface {
	FindOne(ctx.Ctx, Id) (*Asset, error)
	Search(ctx.Ctx, Filter, OrderBy, PageParams) (*SearchResult, error)
}
