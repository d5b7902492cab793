package event

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

type Type string

const (
	TypeComputationQueued  Type = "computation_queued"
	TypeSettlementVerified Type = "settlement_verified"
	TypeAuctionSettled     Type = "auction_settled"
	TypeAuctionCleaned     Type = "auction_cleaned"
	TypeBatchCreated       Type = "batch_created"
	TypeBatchSettled       Type = "batch_settled"
)

// Event is one emitted domain event for external observers. Payload holds
// the type-specific fields.
type Event struct {
	EventId   string      `json:"eventId" bson:"eventId"`
	Type      Type        `json:"type" bson:"type"`
	Timestamp int64       `json:"timestamp" bson:"timestamp"`
	Payload   interface{} `json:"payload" bson:"payload"`
}

type ComputationQueued struct {
	AuctionId     domain.AuctionId `json:"auctionId" bson:"auctionId"`
	ComputationId domain.Digest    `json:"computationId" bson:"computationId"`
	BidCount      uint64           `json:"bidCount" bson:"bidCount"`
	IssuerCluster domain.PublicKey `json:"issuerCluster" bson:"issuerCluster"`
	Budget        uint64           `json:"budget" bson:"budget"`
	QueuedAt      int64            `json:"queuedAt" bson:"queuedAt"`
}

type SettlementVerified struct {
	AuctionId        domain.AuctionId `json:"auctionId" bson:"auctionId"`
	Winner           domain.PublicKey `json:"winner" bson:"winner"`
	WinningAmount    uint64           `json:"winningAmount" bson:"winningAmount"`
	VerificationHash domain.Digest    `json:"verificationHash" bson:"verificationHash"`
	VerifiedAt       int64            `json:"verifiedAt" bson:"verifiedAt"`
}

type AuctionSettled struct {
	AuctionId     domain.AuctionId `json:"auctionId" bson:"auctionId"`
	Winner        domain.PublicKey `json:"winner" bson:"winner"`
	WinningAmount uint64           `json:"winningAmount" bson:"winningAmount"`
	DisplayAmount string           `json:"displayAmount" bson:"displayAmount"`
	Fee           uint64           `json:"fee" bson:"fee"`
	SettledAt     int64            `json:"settledAt" bson:"settledAt"`
}

type AuctionCleaned struct {
	AuctionId domain.AuctionId `json:"auctionId" bson:"auctionId"`
	Refunded  uint64           `json:"refunded" bson:"refunded"`
	CleanedAt int64            `json:"cleanedAt" bson:"cleanedAt"`
}

type BatchCreated struct {
	BatchId      domain.BatchId `json:"batchId" bson:"batchId"`
	AuctionCount uint64         `json:"auctionCount" bson:"auctionCount"`
	CreatedAt    int64          `json:"createdAt" bson:"createdAt"`
}

type BatchSettled struct {
	BatchId      domain.BatchId `json:"batchId" bson:"batchId"`
	SettledCount uint64         `json:"settledCount" bson:"settledCount"`
	Successful   uint64         `json:"successful" bson:"successful"`
	Failed       uint64         `json:"failed" bson:"failed"`
	TotalVolume  uint64         `json:"totalVolume" bson:"totalVolume"`
	SettledAt    int64          `json:"settledAt" bson:"settledAt"`
}

type Emitter interface {
	Emit(ctx ctx.Ctx, eventType Type, payload interface{}) error
}
