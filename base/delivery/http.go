package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		switch {
		case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrBadParamInput) ||
			errors.Is(err, domain.ErrInvalidAuctionId) ||
			errors.Is(err, domain.ErrInvalidDuration) ||
			errors.Is(err, domain.ErrInvalidBatchSize) ||
			errors.Is(err, domain.ErrInvalidBidCount) ||
			errors.Is(err, domain.ErrInvalidAssetAmount):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrProtocolPaused):
			status = http.StatusServiceUnavailable
		case errors.Is(err, domain.ErrInvalidAuctionStatus) ||
			errors.Is(err, domain.ErrAuctionAlreadySettled) ||
			errors.Is(err, domain.ErrSettlementNotAuthorized) ||
			errors.Is(err, domain.ErrAuctionNotEnded) ||
			errors.Is(err, domain.ErrTooManyBids):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrMalformedResult) ||
			errors.Is(err, domain.ErrInvalidEncryption) ||
			errors.Is(err, domain.ErrVerificationFailed) ||
			errors.Is(err, domain.ErrUnknownComputation) ||
			errors.Is(err, domain.ErrInvalidWinnerDetermination) ||
			errors.Is(err, domain.ErrBidTooLow) ||
			errors.Is(err, domain.ErrArithmeticOverflow):
			status = http.StatusUnprocessableEntity
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
