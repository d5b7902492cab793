package batch

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// MaxBatchSize caps how many auctions one settlement batch may carry.
const MaxBatchSize = 10

type Status string

const (
	StatusCreated  Status = "created"
	StatusSettling Status = "settling"
	StatusSettled  Status = "settled"
	StatusFailed   Status = "failed"
)

// IsTerminal reports whether the batch reached a final state. Terminal
// batches cannot be resubmitted.
func (s Status) IsTerminal() bool {
	return s == StatusSettled || s == StatusFailed
}

type Batch struct {
	BatchId            domain.BatchId     `json:"batchId" bson:"batchId"`
	Creator            domain.PublicKey   `json:"creator" bson:"creator"`
	AuctionIds         []domain.AuctionId `json:"auctionIds" bson:"auctionIds"`
	Status             Status             `json:"status" bson:"status"`
	PendingComputation domain.Digest      `json:"pendingComputation,omitempty" bson:"pendingComputation,omitempty"`
	CreatedAt          int64              `json:"createdAt" bson:"createdAt"`
	SettledAt          int64              `json:"settledAt,omitempty" bson:"settledAt,omitempty"`
	Bump               uint8              `json:"bump" bson:"bump"`
}

type Patchable struct {
	Status    *Status `bson:"status,omitempty"`
	SettledAt *int64  `bson:"settledAt,omitempty"`
}

type Repo interface {
	FindOne(ctx ctx.Ctx, id domain.BatchId) (*Batch, error)
	Insert(ctx ctx.Ctx, batch *Batch) error
	Update(ctx ctx.Ctx, id domain.BatchId, patchable Patchable) error
}

type CreateBatchParams struct {
	Creator    domain.PublicKey   `json:"creator" validate:"required"`
	AuctionIds []domain.AuctionId `json:"auctionIds" validate:"required"`
}

type CallbackParams struct {
	BatchId domain.BatchId   `json:"batchId" validate:"required"`
	Caller  domain.PublicKey `json:"caller" validate:"required"`
	Result  []byte           `json:"result" validate:"required"`
}

type UseCase interface {
	CreateBatch(ctx ctx.Ctx, params CreateBatchParams) (*Batch, error)
	GetBatch(ctx ctx.Ctx, id domain.BatchId) (*Batch, error)
	ReceiveCallback(ctx ctx.Ctx, params CallbackParams) error
}
