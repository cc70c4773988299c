package offer

import (
	"time"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusExpired   Status = "expired"
)

// Offer is a submitted bid, persisted for the maker's activity page.
// Amounts are raw base-10 strings in the offer currency's smallest unit.
type Offer struct {
	Id                string         `json:"id" bson:"id"`
	ChainId           domain.ChainId `json:"chainId" bson:"chainId"`
	ContractAddress   domain.Address `json:"contractAddress" bson:"contractAddress"`
	TokenId           domain.TokenId `json:"tokenId" bson:"tokenID"`
	Maker             domain.Address `json:"maker" bson:"maker"`
	Currency          domain.Address `json:"currency" bson:"currency"`
	UnitPrice         string         `json:"unitPrice" bson:"unitPrice"`
	Quantity          int64          `json:"quantity" bson:"quantity"`
	TotalPrice        string         `json:"totalPrice" bson:"totalPrice"`
	TotalFee          string         `json:"totalFee" bson:"totalFee"`
	TotalPayable      string         `json:"totalPayable" bson:"totalPayable"`
	FeePerTenThousand int64          `json:"feePerTenThousand" bson:"feePerTenThousand"`
	Status            Status         `json:"status" bson:"status"`
	UpstreamId        string         `json:"upstreamId" bson:"upstreamId"`
	ExpiredAt         time.Time      `json:"expiredAt" bson:"expiredAt"`
	CreatedAt         time.Time      `json:"createdAt" bson:"createdAt"`
}

func (o *Offer) LowerCase() {
	o.ContractAddress = o.ContractAddress.ToLower()
	o.Maker = o.Maker.ToLower()
	o.Currency = o.Currency.ToLower()
}

type FindAllOptions struct {
	ChainId         *domain.ChainId
	ContractAddress *domain.Address
	TokenId         *domain.TokenId
	Maker           *domain.Address
	Status          *Status
	Offset          *int32
	Limit           *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithContractAddress(address domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ContractAddress = address.ToLowerPtr()
		return nil
	}
}

func WithTokenId(tokenId domain.TokenId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.TokenId = &tokenId
		return nil
	}
}

func WithMaker(maker domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Maker = maker.ToLowerPtr()
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindOne(ctx.Ctx, string) (*Offer, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*Offer, error)
	Insert(ctx.Ctx, *Offer) error
}

// SubmitPayload is the validated form content handed to Submit
type SubmitPayload struct {
	ChainId         domain.ChainId `json:"chainId"`
	ContractAddress domain.Address `json:"contractAddress"`
	TokenId         domain.TokenId `json:"tokenId"`
	Maker           domain.Address `json:"maker"`
	Currency        domain.Address `json:"currency"`
	UnitPrice       string         `json:"unitPrice"`
	Quantity        int64          `json:"quantity"`
	ExpiredAt       time.Time      `json:"expiredAt"`
}

type UseCase interface {
	Submit(ctx.Ctx, SubmitPayload) (*Offer, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*Offer, error)
}

// QuoteView is the live read model of one quote session
type QuoteView struct {
	SessionId    string    `json:"sessionId"`
	TotalPrice   string    `json:"totalPrice"`
	TotalFee     string    `json:"totalFee"`
	TotalPayable string    `json:"totalPayable"`
	Display      string    `json:"display"`
	FeeRate      *FeeRate  `json:"feeRate"`
	FeeDegraded  bool      `json:"feeDegraded"`
	CanAfford    bool      `json:"canAfford"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ContextUpdate is the raw, not yet validated pricing input of the form
type ContextUpdate struct {
	Currency  domain.Address `json:"currency"`
	UnitPrice string         `json:"unitPrice"`
	Quantity  int64          `json:"quantity"`
}

// QuoteSessionUseCase manages one live offer form per session id. Each
// session owns its own debounced fee fetcher.
type QuoteSessionUseCase interface {
	Create(ctx.Ctx, domain.Address, domain.ChainId, domain.Address, domain.TokenId) (string, error)
	UpdateContext(ctx.Ctx, string, ContextUpdate) error
	Get(ctx.Ctx, string) (*QuoteView, error)
	Delete(ctx.Ctx, string) error
}
