package feeclient

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/base/metrics"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
)

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		baseUrl: cfg.BaseUrl,
		timeout: cfg.Timeout,
		met:     metrics.New("feeclient"),
	}
}

type client struct {
	client  http.Client
	baseUrl string
	timeout time.Duration
	met     metrics.Service
}

func (c *client) GetFeeRate(ctx bCtx.Ctx, pc offer.PricingContext) (*offer.FeeRate, error) {
	defer c.met.BumpTime("getFeeRate.time").End()

	params := url.Values{
		"chainId":         {strconv.FormatInt(int64(pc.ChainId), 10)},
		"contractAddress": {pc.ContractAddress.ToLowerStr()},
		"tokenId":         {pc.TokenId.String()},
		"currency":        {pc.Currency.ToLowerStr()},
		"unitPrice":       {pc.UnitPrice.RawString()},
		"quantity":        {strconv.FormatInt(pc.Quantity, 10)},
	}
	url := fmt.Sprintf("%s/fees?%s", c.baseUrl, params.Encode())
	data, err := c.get(ctx, url)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.get failed")
		c.met.BumpSum("getFeeRate.err", 1)
		return nil, xerrors.Errorf("fee lookup: %w", domain.ErrFeeFetchFailed)
	}
	resp := &feeRateResp{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return nil, xerrors.Errorf("fee lookup decode: %w", domain.ErrFeeFetchFailed)
	}
	if resp.ValuePerTenThousand < 0 {
		ctx.WithField("value", resp.ValuePerTenThousand).Error("negative fee rate")
		return nil, xerrors.Errorf("fee lookup value: %w", domain.ErrFeeFetchFailed)
	}
	return &offer.FeeRate{ValuePerTenThousand: resp.ValuePerTenThousand}, nil
}

func (c *client) get(ctx bCtx.Ctx, url string) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("client.Do failed")
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, ErrStatusCodeNotOk
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return body, nil
}
