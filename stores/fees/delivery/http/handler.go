package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/delivery"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
)

type handler struct {
	fees offer.FeeUseCase
}

// New registers the fee rate route the offer form polls
func New(e *echo.Echo, fees offer.FeeUseCase) {
	h := &handler{fees: fees}

	e.GET("/fees", h.get)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId         domain.ChainId `query:"chainId" validate:"required"`
		ContractAddress domain.Address `query:"contractAddress" validate:"required"`
		TokenId         domain.TokenId `query:"tokenId"`
		Currency        domain.Address `query:"currency"`
		Quantity        int64          `query:"quantity"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	rate, err := h.fees.GetRate(ctx, offer.PricingContext{
		ChainId:         p.ChainId,
		ContractAddress: p.ContractAddress,
		TokenId:         p.TokenId,
		Currency:        p.Currency,
		Quantity:        p.Quantity,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, rate)
}
