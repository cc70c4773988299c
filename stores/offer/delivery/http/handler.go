package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/delivery"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/offer"
)

type handler struct {
	offer   offer.UseCase
	session offer.QuoteSessionUseCase
}

// New registers the offer routes. Submission and session creation are
// authenticated, the maker always comes from the token, never the body.
func New(e *echo.Echo, us offer.UseCase, session offer.QuoteSessionUseCase, authMiddleware echo.MiddlewareFunc) {
	h := &handler{
		offer:   us,
		session: session,
	}

	g := e.Group("/offers")
	g.GET("", h.list)
	g.POST("", h.submit, authMiddleware)

	qs := e.Group("/offers/quote-sessions")
	qs.POST("", h.createSession, authMiddleware)
	qs.PUT("/:id/context", h.updateSession)
	qs.GET("/:id", h.getSession)
	qs.DELETE("/:id", h.deleteSession)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId         *domain.ChainId `query:"chainId"`
		ContractAddress *domain.Address `query:"contractAddress"`
		TokenId         *domain.TokenId `query:"tokenId"`
		Maker           *domain.Address `query:"maker"`
		Status          *offer.Status   `query:"status"`
		Offset          int32           `query:"offset"`
		Limit           int32           `query:"limit"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []offer.FindAllOptionsFunc{}
	if p.ChainId != nil {
		opts = append(opts, offer.WithChainId(*p.ChainId))
	}
	if p.ContractAddress != nil {
		opts = append(opts, offer.WithContractAddress(*p.ContractAddress))
	}
	if p.TokenId != nil {
		opts = append(opts, offer.WithTokenId(*p.TokenId))
	}
	if p.Maker != nil {
		opts = append(opts, offer.WithMaker(*p.Maker))
	}
	if p.Status != nil {
		opts = append(opts, offer.WithStatus(*p.Status))
	}
	if p.Limit > 0 {
		opts = append(opts, offer.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.offer.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) submit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	maker := c.Get("address").(domain.Address)

	p := struct {
		ChainId         domain.ChainId `json:"chainId" validate:"required"`
		ContractAddress domain.Address `json:"contractAddress" validate:"required"`
		TokenId         domain.TokenId `json:"tokenId" validate:"required"`
		Currency        domain.Address `json:"currency" validate:"required"`
		UnitPrice       string         `json:"unitPrice" validate:"required"`
		Quantity        int64          `json:"quantity" validate:"required"`
		ExpiredAt       int64          `json:"expiredAt" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offer.Submit(ctx, offer.SubmitPayload{
		ChainId:         p.ChainId,
		ContractAddress: p.ContractAddress,
		TokenId:         p.TokenId,
		Maker:           maker,
		Currency:        p.Currency,
		UnitPrice:       p.UnitPrice,
		Quantity:        p.Quantity,
		ExpiredAt:       time.Unix(p.ExpiredAt, 0),
	})
	if errors.Is(err, domain.ErrInsufficientBalance) {
		return delivery.MakeJsonResp(c, http.StatusUnprocessableEntity, err.Error())
	} else if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) createSession(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	maker := c.Get("address").(domain.Address)

	p := struct {
		ChainId         domain.ChainId `json:"chainId" validate:"required"`
		ContractAddress domain.Address `json:"contractAddress" validate:"required"`
		TokenId         domain.TokenId `json:"tokenId" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	id, err := h.session.Create(ctx, maker, p.ChainId, p.ContractAddress, p.TokenId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, map[string]string{"sessionId": id})
}

func (h *handler) updateSession(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Id        string         `param:"id"`
		Currency  domain.Address `json:"currency"`
		UnitPrice string         `json:"unitPrice"`
		Quantity  int64          `json:"quantity"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	err := h.session.UpdateContext(ctx, p.Id, offer.ContextUpdate{
		Currency:  p.Currency,
		UnitPrice: p.UnitPrice,
		Quantity:  p.Quantity,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) getSession(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.session.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) deleteSession(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if err := h.session.Delete(ctx, c.Param("id")); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
