package domain

import (
	"time"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/money"
)

// Balance is one account's holding of one currency, written by the
// chain indexer. RawBalance is the base-10 string of the smallest unit.
type Balance struct {
	ChainId    ChainId   `json:"chainId" bson:"chainId"`
	Currency   Address   `json:"currency" bson:"currency"`
	Owner      Address   `json:"owner" bson:"owner"`
	RawBalance string    `json:"rawBalance" bson:"rawBalance"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type BalanceId struct {
	ChainId  ChainId `bson:"chainId"`
	Currency Address `bson:"currency"`
	Owner    Address `bson:"owner"`
}

func (b *Balance) ToId() *BalanceId {
	return &BalanceId{
		ChainId:  b.ChainId,
		Currency: b.Currency,
		Owner:    b.Owner,
	}
}

type BalanceRepo interface {
	FindOne(ctx.Ctx, BalanceId) (*Balance, error)
	Upsert(ctx.Ctx, *Balance) error
}

// BalanceUseCase reads balances as money. Get returns nil without error
// when the indexer has not seen the pair yet.
type BalanceUseCase interface {
	Get(ctx.Ctx, BalanceId) (*money.Money, error)
	Upsert(ctx.Ctx, *Balance) error
}
