package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/delivery"
	"github.com/shadowlabs-sol/shadow/domain"
	dVault "github.com/shadowlabs-sol/shadow/domain/vault"
	"github.com/shadowlabs-sol/shadow/middleware"
)

type handler struct {
	vault dVault.Service
}

func New(e *echo.Echo, _vault dVault.Service) {
	h := &handler{_vault}

	g := e.Group("/vault")
	g.GET("/:account/balance/:mint", h.getBalance,
		middleware.IsValidPublicKey("account"), middleware.IsValidPublicKey("mint"))
}

func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Account domain.PublicKey `param:"account" validate:"required"`
		Mint    domain.PublicKey `param:"mint" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	amount, err := h.vault.Balance(ctx, p.Account, p.Mint)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Account domain.PublicKey `json:"account"`
		Mint    domain.PublicKey `json:"mint"`
		Amount  uint64           `json:"amount"`
	}{p.Account, p.Mint, amount})
}
