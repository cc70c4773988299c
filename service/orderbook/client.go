package orderbook

import (
	"net/http"
	"time"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/domain/offer"
)

// Client hands validated offers to the upstream marketplace orderbook
type Client interface {
	// SubmitOffer returns the upstream id of the accepted offer
	SubmitOffer(bCtx.Ctx, *offer.Offer) (string, error)
}

type ClientCfg struct {
	HttpClient http.Client
	BaseUrl    string
	ApiKey     string
	Timeout    time.Duration
}

type submitReq struct {
	ChainId         int64  `json:"chainId"`
	ContractAddress string `json:"contractAddress"`
	TokenId         string `json:"tokenId"`
	Maker           string `json:"maker"`
	Currency        string `json:"currency"`
	UnitPrice       string `json:"unitPrice"`
	Quantity        int64  `json:"quantity"`
	ExpiredAt       int64  `json:"expiredAt"`
}

type submitResp struct {
	Id string `json:"id"`
}
