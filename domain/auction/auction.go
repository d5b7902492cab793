package auction

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// Status is the lifecycle state of one auction. Transitions only move
// forward, except the forced jump to StatusCancelled via cleanup or a
// malformed computation result.
type Status string

const (
	StatusCreated   Status = "created"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusSettled   Status = "settled"
	StatusCancelled Status = "cancelled"
)

// validTransitions is the single authoritative transition table. Guards in
// the usecases go through CanTransition instead of hand-rolled comparisons.
var validTransitions = map[Status][]Status{
	StatusCreated:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusEnded, StatusCancelled},
	StatusEnded:     {StatusSettled, StatusCancelled},
	StatusSettled:   {StatusCancelled},
	StatusCancelled: {},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range validTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

type Auction struct {
	AuctionId domain.AuctionId   `json:"auctionId" bson:"auctionId"`
	Creator   domain.PublicKey   `json:"creator" bson:"creator"`
	Kind      domain.AuctionKind `json:"kind" bson:"kind"`

	// asset under escrow
	AssetMint   domain.PublicKey `json:"assetMint" bson:"assetMint"`
	AssetAmount uint64           `json:"assetAmount" bson:"assetAmount"`

	// economic terms
	MinimumBid            uint64            `json:"minimumBid" bson:"minimumBid"`
	ReservePriceEncrypted domain.Ciphertext `json:"reservePriceEncrypted" bson:"reservePriceEncrypted"`
	ReservePriceNonce     domain.Nonce      `json:"reservePriceNonce" bson:"reservePriceNonce"`

	// dutch-only decay parameters
	StartingPrice     uint64 `json:"startingPrice,omitempty" bson:"startingPrice,omitempty"`
	PriceDecreaseRate uint64 `json:"priceDecreaseRate,omitempty" bson:"priceDecreaseRate,omitempty"`
	PriceFloor        uint64 `json:"priceFloor,omitempty" bson:"priceFloor,omitempty"`

	// timing, unix seconds
	StartTime int64 `json:"startTime" bson:"startTime"`
	EndTime   int64 `json:"endTime" bson:"endTime"`
	CreatedAt int64 `json:"createdAt" bson:"createdAt"`

	Status Status `json:"status" bson:"status"`

	// outstanding computation request, at most one
	PendingComputation  domain.Digest    `json:"pendingComputation,omitempty" bson:"pendingComputation,omitempty"`
	ComputationIssuer   domain.PublicKey `json:"computationIssuer,omitempty" bson:"computationIssuer,omitempty"`
	ComputationBudget   uint64           `json:"computationBudget,omitempty" bson:"computationBudget,omitempty"`
	ComputationQueuedAt int64            `json:"computationQueuedAt,omitempty" bson:"computationQueuedAt,omitempty"`

	// settlement fields, written by the callback only
	Winner               domain.PublicKey `json:"winner,omitempty" bson:"winner,omitempty"`
	WinningAmount        uint64           `json:"winningAmount" bson:"winningAmount"`
	VerificationHash     domain.Digest    `json:"verificationHash,omitempty" bson:"verificationHash,omitempty"`
	SettlementAuthorized bool             `json:"settlementAuthorized" bson:"settlementAuthorized"`
	SettledAt            int64            `json:"settledAt,omitempty" bson:"settledAt,omitempty"`

	// storage nonce used to re-derive the deterministic record address
	Bump uint8 `json:"bump" bson:"bump"`
}

// HasPendingComputation reports whether a request was queued and its
// callback has not resolved yet.
func (a *Auction) HasPendingComputation() bool {
	return !a.PendingComputation.IsEmpty() && !a.SettlementAuthorized
}

type Patchable struct {
	Status               *Status           `bson:"status,omitempty"`
	EndTime              *int64            `bson:"endTime,omitempty"`
	PendingComputation   *domain.Digest    `bson:"pendingComputation,omitempty"`
	ComputationIssuer    *domain.PublicKey `bson:"computationIssuer,omitempty"`
	ComputationBudget    *uint64           `bson:"computationBudget,omitempty"`
	ComputationQueuedAt  *int64            `bson:"computationQueuedAt,omitempty"`
	Winner               *domain.PublicKey `bson:"winner,omitempty"`
	WinningAmount        *uint64           `bson:"winningAmount,omitempty"`
	VerificationHash     *domain.Digest    `bson:"verificationHash,omitempty"`
	SettlementAuthorized *bool             `bson:"settlementAuthorized,omitempty"`
	SettledAt            *int64            `bson:"settledAt,omitempty"`
}

type FindAllOptions struct {
	Creator   *domain.PublicKey
	Kind      *domain.AuctionKind
	Status    *Status
	EndTimeLT *int64
	Offset    *int32
	Limit     *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithCreator(creator domain.PublicKey) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Creator = &creator
		return nil
	}
}

func WithKind(kind domain.AuctionKind) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Kind = &kind
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithEndTimeLT(t int64) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	FindOne(ctx ctx.Ctx, id domain.AuctionId) (*Auction, error)
	Insert(ctx ctx.Ctx, auction *Auction) error
	Update(ctx ctx.Ctx, id domain.AuctionId, patchable Patchable) error
	Remove(ctx ctx.Ctx, id domain.AuctionId) error
	NextAuctionId(ctx ctx.Ctx) (domain.AuctionId, error)
}

type CreateSealedAuctionParams struct {
	Creator               domain.PublicKey  `json:"creator" validate:"required"`
	AssetMint             domain.PublicKey  `json:"assetMint" validate:"required"`
	AssetAmount           uint64            `json:"assetAmount" validate:"required"`
	Duration              int64             `json:"duration" validate:"required"`
	MinimumBid            uint64            `json:"minimumBid"`
	ReservePriceEncrypted domain.Ciphertext `json:"reservePriceEncrypted" validate:"required"`
	ReservePriceNonce     domain.Nonce      `json:"reservePriceNonce" validate:"required"`
}

type CreateDutchAuctionParams struct {
	Creator               domain.PublicKey  `json:"creator" validate:"required"`
	AssetMint             domain.PublicKey  `json:"assetMint" validate:"required"`
	AssetAmount           uint64            `json:"assetAmount" validate:"required"`
	Duration              int64             `json:"duration" validate:"required"`
	StartingPrice         uint64            `json:"startingPrice" validate:"required"`
	PriceDecreaseRate     uint64            `json:"priceDecreaseRate" validate:"required"`
	PriceFloor            uint64            `json:"priceFloor"`
	ReservePriceEncrypted domain.Ciphertext `json:"reservePriceEncrypted" validate:"required"`
	ReservePriceNonce     domain.Nonce      `json:"reservePriceNonce" validate:"required"`
}

type SubmitBidParams struct {
	AuctionId       domain.AuctionId  `json:"auctionId" validate:"required"`
	Bidder          domain.PublicKey  `json:"bidder" validate:"required"`
	AmountEncrypted domain.Ciphertext `json:"amountEncrypted" validate:"required"`
	PublicKey       domain.PublicKey  `json:"publicKey" validate:"required"`
	Nonce           domain.Nonce      `json:"nonce" validate:"required"`
}

type SubmitDutchBidParams struct {
	AuctionId domain.AuctionId `json:"auctionId" validate:"required"`
	Bidder    domain.PublicKey `json:"bidder" validate:"required"`
	BidAmount uint64           `json:"bidAmount" validate:"required"`
}

type QueueComputationParams struct {
	AuctionId domain.AuctionId `json:"auctionId" validate:"required"`
	Issuer    domain.PublicKey `json:"issuer" validate:"required"`
	Budget    uint64           `json:"budget"`
}

type CallbackParams struct {
	AuctionId     domain.AuctionId `json:"auctionId" validate:"required"`
	Caller        domain.PublicKey `json:"caller" validate:"required"`
	ComputationId domain.Digest    `json:"computationId" validate:"required"`
	Result        []byte           `json:"result" validate:"required"`
}

type UseCase interface {
	CreateSealedAuction(ctx ctx.Ctx, params CreateSealedAuctionParams) (*Auction, error)
	CreateDutchAuction(ctx ctx.Ctx, params CreateDutchAuctionParams) (*Auction, error)
	GetAuction(ctx ctx.Ctx, id domain.AuctionId) (*Auction, error)
	ListAuctions(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	SubmitBid(ctx ctx.Ctx, params SubmitBidParams) error
	SubmitDutchBid(ctx ctx.Ctx, params SubmitDutchBidParams) (*Auction, error)
	QueueComputation(ctx ctx.Ctx, params QueueComputationParams) (domain.Digest, error)
	ReceiveCallback(ctx ctx.Ctx, params CallbackParams) error
	Cleanup(ctx ctx.Ctx, id domain.AuctionId) error
}
