package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/delivery"
	"github.com/shadowlabs-sol/shadow/domain"
	dAuction "github.com/shadowlabs-sol/shadow/domain/auction"
	dSettlement "github.com/shadowlabs-sol/shadow/domain/settlement"
)

type handler struct {
	auction    dAuction.UseCase
	settlement dSettlement.UseCase
}

func New(e *echo.Echo, _auction dAuction.UseCase, _settlement dSettlement.UseCase) {
	h := &handler{_auction, _settlement}

	e.GET("/auctions", h.listAuctions)

	g := e.Group("/auction")
	g.POST("/sealed", h.createSealedAuction)
	g.POST("/dutch", h.createDutchAuction)
	g.GET("/:auctionId", h.getAuction)
	g.POST("/:auctionId/bid", h.submitBid)
	g.POST("/:auctionId/dutch-bid", h.submitDutchBid)
	g.POST("/:auctionId/computation", h.queueComputation)
	g.POST("/:auctionId/callback", h.receiveCallback)
	g.POST("/:auctionId/settle", h.executeSettlement)
	g.DELETE("/:auctionId", h.cleanup)
}

func (h *handler) createSealedAuction(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.CreateSealedAuctionParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.CreateSealedAuction(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) createDutchAuction(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.CreateDutchAuctionParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.CreateDutchAuction(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) listAuctions(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		Creator       *domain.PublicKey   `query:"creator"`
		Kind          *domain.AuctionKind `query:"kind"`
		Status        *dAuction.Status    `query:"status"`
		EndTimeBefore *int64              `query:"endTimeBefore"`
		Offset        int32               `query:"offset"`
		Limit         int32               `query:"limit"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []dAuction.FindAllOptionsFunc{
		dAuction.WithPagination(p.Offset, p.Limit),
	}
	if p.Creator != nil {
		opts = append(opts, dAuction.WithCreator(*p.Creator))
	}
	if p.Kind != nil {
		opts = append(opts, dAuction.WithKind(*p.Kind))
	}
	if p.Status != nil {
		opts = append(opts, dAuction.WithStatus(*p.Status))
	}
	if p.EndTimeBefore != nil {
		opts = append(opts, dAuction.WithEndTimeLT(*p.EndTimeBefore))
	}

	res, err := h.auction.ListAuctions(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getAuction(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		AuctionId domain.AuctionId `param:"auctionId" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.GetAuction(ctx, p.AuctionId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) submitBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.SubmitBidParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.SubmitBid(ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) submitDutchBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.SubmitDutchBidParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.auction.SubmitDutchBid(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) queueComputation(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.QueueComputationParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	requestId, err := h.auction.QueueComputation(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		RequestId domain.Digest `json:"requestId"`
	}{requestId})
}

func (h *handler) receiveCallback(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dAuction.CallbackParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.ReceiveCallback(ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) executeSettlement(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := dSettlement.ExecuteParams{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.settlement.ExecuteSettlement(ctx, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) cleanup(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := struct {
		AuctionId domain.AuctionId `param:"auctionId" validate:"required"`
	}{}
	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.auction.Cleanup(ctx, p.AuctionId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
