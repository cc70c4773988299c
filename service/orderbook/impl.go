package orderbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"golang.org/x/xerrors"

	bCtx "github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/log"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
)

func NewClient(cfg *ClientCfg) Client {
	return &client{
		client:  cfg.HttpClient,
		baseUrl: cfg.BaseUrl,
		apiKey:  cfg.ApiKey,
		timeout: cfg.Timeout,
	}
}

type client struct {
	client  http.Client
	baseUrl string
	apiKey  string
	timeout time.Duration
}

func (c *client) SubmitOffer(ctx bCtx.Ctx, o *offer.Offer) (string, error) {
	body, err := json.Marshal(submitReq{
		ChainId:         int64(o.ChainId),
		ContractAddress: o.ContractAddress.ToLowerStr(),
		TokenId:         o.TokenId.String(),
		Maker:           o.Maker.ToLowerStr(),
		Currency:        o.Currency.ToLowerStr(),
		UnitPrice:       o.UnitPrice,
		Quantity:        o.Quantity,
		ExpiredAt:       o.ExpiredAt.Unix(),
	})
	if err != nil {
		ctx.WithField("err", err).Error("json.Marshal failed")
		return "", xerrors.Errorf("submit encode: %w", domain.ErrSubmissionFailed)
	}

	url := fmt.Sprintf("%s/offers", c.baseUrl)
	data, err := c.post(ctx, url, body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("c.post failed")
		return "", xerrors.Errorf("submit: %w", domain.ErrSubmissionFailed)
	}

	resp := &submitResp{}
	if err := json.Unmarshal(data, resp); err != nil {
		ctx.WithField("err", err).Error("json.Unmarshal failed")
		return "", xerrors.Errorf("submit decode: %w", domain.ErrSubmissionFailed)
	}
	if resp.Id == "" {
		return "", xerrors.Errorf("submit empty id: %w", domain.ErrSubmissionFailed)
	}
	return resp.Id, nil
}

func (c *client) post(ctx bCtx.Ctx, url string, body []byte) ([]byte, error) {
	ctx, cancel := bCtx.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("NewRequestWithContext failed")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
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
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		ctx.WithFields(log.Fields{
			"url":        url,
			"statusCode": resp.StatusCode,
		}).Error("unexpected status code")
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		ctx.WithFields(log.Fields{
			"url": url,
			"err": err,
		}).Error("failed to read body")
		return nil, err
	}
	return respBody, nil
}
