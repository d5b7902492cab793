package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type bidRepoImpl struct {
	q query.Mongo
}

func NewBidRepo(q query.Mongo) auction.BidRepo {
	return &bidRepoImpl{q: q}
}

func (r *bidRepoImpl) FindAll(ctx bCtx.Ctx, auctionId domain.AuctionId) ([]*auction.Bid, error) {
	qry := bson.M{"auctionId": auctionId}
	bids := []*auction.Bid{}
	if err := r.q.Search(ctx, domain.TableBids, 0, 0, "submittedAt", qry, &bids); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return bids, nil
}

func (r *bidRepoImpl) FindOne(ctx bCtx.Ctx, id auction.BidId) (*auction.Bid, error) {
	qry := bson.M{"auctionId": id.AuctionId, "bidder": id.Bidder.ToLower()}
	res := &auction.Bid{}
	if err := r.q.FindOne(ctx, domain.TableBids, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

// Upsert keeps at most one bid per bidder per auction. A rebid replaces the
// previous commitment instead of stacking a second one.
func (r *bidRepoImpl) Upsert(ctx bCtx.Ctx, bid *auction.Bid) error {
	copy := *bid
	copy.Bidder = bid.Bidder.ToLower()
	copy.PublicKey = bid.PublicKey.ToLower()
	qry := bson.M{"auctionId": copy.AuctionId, "bidder": copy.Bidder}
	if err := r.q.Upsert(ctx, domain.TableBids, qry, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Upsert failed")
		return err
	}
	return nil
}

func (r *bidRepoImpl) Count(ctx bCtx.Ctx, auctionId domain.AuctionId) (int, error) {
	qry := bson.M{"auctionId": auctionId}
	n, err := r.q.Count(ctx, domain.TableBids, qry)
	if err != nil {
		ctx.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}

func (r *bidRepoImpl) RemoveAll(ctx bCtx.Ctx, auctionId domain.AuctionId) error {
	qry := bson.M{"auctionId": auctionId}
	if _, err := r.q.RemoveAll(ctx, domain.TableBids, qry); err != nil {
		ctx.WithField("err", err).Error("q.RemoveAll failed")
		return err
	}
	return nil
}
