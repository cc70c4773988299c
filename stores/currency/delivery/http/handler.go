package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/delivery"
	"github.com/tokenfront/goapi/domain"
)

type handler struct {
	currency domain.CurrencyUseCase
}

// New registers the currency reference data routes
func New(e *echo.Echo, currency domain.CurrencyUseCase) {
	h := &handler{currency: currency}

	g := e.Group("/currencies")
	g.GET("", h.list)
	g.GET("/:chainId/:address", h.get)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId  *domain.ChainId `query:"chainId"`
		IsNative *bool           `query:"isNative"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []domain.CurrencyFindAllOptionsFunc{}
	if p.ChainId != nil {
		opts = append(opts, domain.CurrencyWithChainId(*p.ChainId))
	}
	if p.IsNative != nil {
		opts = append(opts, domain.CurrencyWithIsNative(*p.IsNative))
	}

	res, err := h.currency.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId domain.ChainId `param:"chainId"`
		Address domain.Address `param:"address"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.currency.FindOne(ctx, p.ChainId, p.Address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
