package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/delivery"
	"github.com/shadowlabs-sol/shadow/domain"
	dProtocol "github.com/shadowlabs-sol/shadow/domain/protocol"
)

type handler struct {
	protocol dProtocol.UseCase
}

func New(e *echo.Echo, _protocol dProtocol.UseCase) {
	h := &handler{_protocol}

	g := e.Group("/protocol")
	g.POST("/initialize", h.initialize)
	g.POST("/pause", h.setPaused)
	g.POST("/fee", h.updateFee)
	g.POST("/fee-recipient", h.updateFeeRecipient)
	g.POST("/authority/initiate", h.initiateAuthorityTransfer)
	g.POST("/authority/complete", h.completeAuthorityTransfer)
	g.POST("/authority/cancel", h.cancelAuthorityTransfer)
}

func (h *handler) initialize(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Authority    domain.PublicKey `json:"authority" validate:"required"`
		FeeRecipient domain.PublicKey `json:"feeRecipient" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.protocol.Initialize(ctx, p.Authority, p.FeeRecipient)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) setPaused(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller domain.PublicKey `json:"caller" validate:"required"`
		Paused bool             `json:"paused"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.SetPaused(ctx, p.Caller, p.Paused); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) updateFee(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller domain.PublicKey `json:"caller" validate:"required"`
		FeeBps uint16           `json:"feeBps"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.UpdateFee(ctx, p.Caller, p.FeeBps); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) updateFeeRecipient(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller    domain.PublicKey `json:"caller" validate:"required"`
		Recipient domain.PublicKey `json:"recipient" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.UpdateFeeRecipient(ctx, p.Caller, p.Recipient); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) initiateAuthorityTransfer(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller       domain.PublicKey `json:"caller" validate:"required"`
		NewAuthority domain.PublicKey `json:"newAuthority" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.InitiateAuthorityTransfer(ctx, p.Caller, p.NewAuthority); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) completeAuthorityTransfer(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller domain.PublicKey `json:"caller" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.CompleteAuthorityTransfer(ctx, p.Caller); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) cancelAuthorityTransfer(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Caller domain.PublicKey `json:"caller" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.protocol.CancelAuthorityTransfer(ctx, p.Caller); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
