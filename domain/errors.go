package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	// protocol guards
	ErrProtocolPaused = errors.New("protocol is paused")
	ErrUnauthorized   = errors.New("unauthorized")

	// lifecycle guards
	ErrInvalidAuctionStatus = errors.New("invalid auction status")
	ErrInvalidAuctionId     = errors.New("invalid auction id")
	ErrInvalidDuration      = errors.New("invalid auction duration")
	ErrAuctionNotEnded      = errors.New("auction not ended")

	// bidding
	ErrInvalidEncryption = errors.New("invalid bid encryption")
	ErrInvalidBidCount   = errors.New("invalid bid count")
	ErrTooManyBids       = errors.New("too many bids")
	ErrBidTooLow         = errors.New("bid below required price")

	// computation protocol
	ErrUnknownComputation = errors.New("unknown computation")
	ErrMalformedResult    = errors.New("malformed computation result")
	ErrVerificationFailed = errors.New("computation verification failed")

	// settlement
	ErrAuctionAlreadySettled      = errors.New("auction already settled")
	ErrSettlementNotAuthorized    = errors.New("settlement not authorized")
	ErrInvalidWinnerDetermination = errors.New("winner does not match authorized result")
	ErrInvalidAssetAmount         = errors.New("invalid asset amount")
	ErrArithmeticOverflow         = errors.New("arithmetic overflow")

	// batching
	ErrInvalidBatchSize = errors.New("invalid batch size")
)
