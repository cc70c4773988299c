package feeclient

import (
	"errors"
	"net/http"
	"time"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain/offer"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

// Client looks up the marketplace fee rate for a pricing context
type Client interface {
	GetFeeRate(bCtx.Ctx, offer.PricingContext) (*offer.FeeRate, error)
}

type ClientCfg struct {
	HttpClient http.Client
	BaseUrl    string
	Timeout    time.Duration
}

type feeRateResp struct {
	ValuePerTenThousand int64 `json:"valuePerTenThousand"`
}
