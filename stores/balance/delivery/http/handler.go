package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/delivery"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/middleware"
)

type handler struct {
	balance domain.BalanceUseCase
}

type balanceResp struct {
	RawBalance string `json:"rawBalance"`
	Display    string `json:"display"`
	Decimals   int32  `json:"decimals"`
}

// New registers the account balance routes
func New(e *echo.Echo, balance domain.BalanceUseCase) {
	h := &handler{balance: balance}

	g := e.Group("/accounts/:address")
	g.Use(middleware.IsValidAddress("address"))
	g.GET("/balance", h.get)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Address  domain.Address `param:"address"`
		ChainId  domain.ChainId `query:"chainId" validate:"required"`
		Currency domain.Address `query:"currency" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	m, err := h.balance.Get(ctx, domain.BalanceId{
		ChainId:  p.ChainId,
		Currency: p.Currency,
		Owner:    p.Address,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if m == nil {
		// unknown pair, the client renders it as "balance unavailable"
		return delivery.MakeJsonResp(c, http.StatusOK, nil)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, balanceResp{
		RawBalance: m.RawString(),
		Display:    m.Display(),
		Decimals:   m.Decimals(),
	})
}
