package domain

import (
	"github.com/tokenfront/goapi/base/ctx"
)

type Id struct {
	ChainId ChainId `json:"chainId" bson:"chainId"`
	Address Address `json:"address" bson:"address"`
}

// Currency is reference data for a payment token the storefront can
// price offers in
type Currency struct {
	Name     string  `json:"name" bson:"name"`
	Symbol   string  `json:"symbol" bson:"symbol"`
	Decimals int32   `json:"decimals" bson:"decimals"`
	ChainId  ChainId `json:"chainId" bson:"chainId"`
	Address  Address `json:"address" bson:"address"`
	Image    string  `json:"image" bson:"image"`
	IsNative bool    `json:"isNative" bson:"isNative"`
}

func (c *Currency) ToId() *Id {
	return &Id{
		ChainId: c.ChainId,
		Address: c.Address,
	}
}

type CurrencyFindAllOptions struct {
	ChainId  *ChainId
	IsNative *bool
}

type CurrencyFindAllOptionsFunc func(*CurrencyFindAllOptions) error

func GetCurrencyFindAllOptions(opts ...CurrencyFindAllOptionsFunc) (CurrencyFindAllOptions, error) {
	res := CurrencyFindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func CurrencyWithChainId(chainId ChainId) CurrencyFindAllOptionsFunc {
	return func(options *CurrencyFindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func CurrencyWithIsNative(isNative bool) CurrencyFindAllOptionsFunc {
	return func(options *CurrencyFindAllOptions) error {
		options.IsNative = &isNative
		return nil
	}
}

type CurrencyRepo interface {
	FindOne(ctx.Ctx, ChainId, Address) (*Currency, error)
	FindAll(ctx.Ctx, ...CurrencyFindAllOptionsFunc) ([]Currency, error)
	Upsert(ctx.Ctx, *Currency) error
}

type CurrencyUseCase interface {
	FindOne(ctx.Ctx, ChainId, Address) (*Currency, error)
	FindAll(ctx.Ctx, ...CurrencyFindAllOptionsFunc) ([]Currency, error)
	Upsert(ctx.Ctx, *Currency) error
}
