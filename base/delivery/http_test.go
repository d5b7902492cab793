package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shadowlabs-sol/shadow/domain"
)

func respondWith(t *testing.T, data interface{}) int {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, MakeJsonResp(c, http.StatusInternalServerError, data))
	return rec.Code
}

func TestMakeJsonRespStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrBadParamInput, http.StatusBadRequest},
		{domain.ErrInvalidDuration, http.StatusBadRequest},
		{domain.ErrInvalidBatchSize, http.StatusBadRequest},
		{domain.ErrInvalidBidCount, http.StatusBadRequest},
		{domain.ErrInvalidAssetAmount, http.StatusBadRequest},
		{domain.ErrProtocolPaused, http.StatusServiceUnavailable},
		{domain.ErrInvalidAuctionStatus, http.StatusConflict},
		{domain.ErrAuctionAlreadySettled, http.StatusConflict},
		{domain.ErrSettlementNotAuthorized, http.StatusConflict},
		{domain.ErrAuctionNotEnded, http.StatusConflict},
		{domain.ErrTooManyBids, http.StatusConflict},
		{domain.ErrMalformedResult, http.StatusUnprocessableEntity},
		{domain.ErrInvalidEncryption, http.StatusUnprocessableEntity},
		{domain.ErrVerificationFailed, http.StatusUnprocessableEntity},
		{domain.ErrUnknownComputation, http.StatusUnprocessableEntity},
		{domain.ErrInvalidWinnerDetermination, http.StatusUnprocessableEntity},
		{domain.ErrBidTooLow, http.StatusUnprocessableEntity},
		{domain.ErrArithmeticOverflow, http.StatusUnprocessableEntity},
		{domain.ErrInternalServerError, http.StatusInternalServerError},
	}

	for _, c := range cases {
		require.Equal(t, c.want, respondWith(t, c.err), "error %v", c.err)
	}
}

func TestMakeJsonRespSuccess(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, MakeJsonResp(c, http.StatusOK, "ok"))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":"ok","status":"success"}`, rec.Body.String())
}
