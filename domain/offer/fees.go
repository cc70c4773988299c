package offer

import (
	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain"
)

// FeeOverride is a per-collection fee rate, taking precedence over the
// platform default
type FeeOverride struct {
	ChainId             domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress     domain.Address `json:"contractAddress" bson:"contractAddress"`
	ValuePerTenThousand int64          `json:"valuePerTenThousand" bson:"valuePerTenThousand"`
}

type FeeOverrideId struct {
	ChainId         domain.ChainId `bson:"chainId"`
	ContractAddress domain.Address `bson:"contractAddress"`
}

func (f *FeeOverride) ToId() *FeeOverrideId {
	return &FeeOverrideId{
		ChainId:         f.ChainId,
		ContractAddress: f.ContractAddress,
	}
}

type FeeOverrideRepo interface {
	FindOne(ctx.Ctx, FeeOverrideId) (*FeeOverride, error)
	Upsert(ctx.Ctx, *FeeOverride) error
}

// FeeUseCase resolves the effective fee rate for a pricing context
type FeeUseCase interface {
	GetRate(ctx.Ctx, PricingContext) (*FeeRate, error)
}
