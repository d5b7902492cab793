package auction

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// Bid is one encrypted commitment. The amount stays opaque until the
// computation network reveals only the outcome.
type Bid struct {
	AuctionId       domain.AuctionId  `json:"auctionId" bson:"auctionId"`
	Bidder          domain.PublicKey  `json:"bidder" bson:"bidder"`
	AmountEncrypted domain.Ciphertext `json:"amountEncrypted" bson:"amountEncrypted"`
	Nonce           domain.Nonce      `json:"nonce" bson:"nonce"`
	PublicKey       domain.PublicKey  `json:"publicKey" bson:"publicKey"`
	SubmittedAt     int64             `json:"submittedAt" bson:"submittedAt"`
}

func (b *Bid) ToId() BidId {
	return BidId{
		AuctionId: b.AuctionId,
		Bidder:    b.Bidder,
	}
}

type BidId struct {
	AuctionId domain.AuctionId `json:"auctionId" bson:"auctionId"`
	Bidder    domain.PublicKey `json:"bidder" bson:"bidder"`
}

type BidRepo interface {
	FindAll(ctx ctx.Ctx, auctionId domain.AuctionId) ([]*Bid, error)
	FindOne(ctx ctx.Ctx, id BidId) (*Bid, error)
	Upsert(ctx ctx.Ctx, bid *Bid) error
	Count(ctx ctx.Ctx, auctionId domain.AuctionId) (int, error)
	RemoveAll(ctx ctx.Ctx, auctionId domain.AuctionId) error
}
