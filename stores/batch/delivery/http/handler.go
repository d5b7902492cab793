package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/delivery"
	"github.com/shadowlabs-sol/shadow/domain"
	dBatch "github.com/shadowlabs-sol/shadow/domain/batch"
)

type handler struct {
	batch dBatch.UseCase
}

func New(e *echo.Echo, _batch dBatch.UseCase) {
	h := &handler{_batch}

	g := e.Group("/batch")
	g.POST("", h.createBatch)
	g.GET("/:batchId", h.getBatch)
	g.POST("/:batchId/callback", h.receiveCallback)
}

func (h *handler) createBatch(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dBatch.CreateBatchParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.batch.CreateBatch(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) getBatch(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		BatchId domain.BatchId `param:"batchId" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.batch.GetBatch(ctx, p.BatchId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) receiveCallback(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dBatch.CallbackParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.batch.ReceiveCallback(ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
