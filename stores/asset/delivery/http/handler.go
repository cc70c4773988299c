package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tokenfront/goapi/base/ctx"
	"github.com/tokenfront/goapi/base/delivery"
	"github.com/tokenfront/goapi/domain"
	"github.com/tokenfront/goapi/domain/asset"
	"github.com/tokenfront/goapi/middleware"
)

const searchCacheTtl = 30 * time.Second

type handler struct {
	asset asset.UseCase
}

// New registers the asset browsing routes
func New(e *echo.Echo, us asset.UseCase) {
	h := &handler{asset: us}

	e.GET("/assets", h.search, middleware.CacheHttp(searchCacheTtl))
	e.GET("/asset/:chainId/:contractAddress/:tokenId", h.get)
}

func (h *handler) search(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	values := c.QueryParams()
	filter := asset.ParseFilterQuery(values)
	page := asset.ParsePageQuery(values)
	orderBy := asset.ToOrderBy(values.Get("orderBy"))

	res, err := h.asset.Search(ctx, filter, orderBy, page)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ChainId         domain.ChainId `param:"chainId"`
		ContractAddress domain.Address `param:"contractAddress"`
		TokenId         domain.TokenId `param:"tokenId"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.asset.FindOne(ctx, asset.Id{
		ChainId:         p.ChainId,
		ContractAddress: p.ContractAddress,
		TokenId:         p.TokenId,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
