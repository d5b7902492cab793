package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/database/mongoclient"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type auctionRepoImpl struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionRepoImpl{q: q}
}

func (r *auctionRepoImpl) FindAll(ctx bCtx.Ctx, optFns ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	opts, err := auction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("auction.GetFindAllOptions failed")
		return nil, err
	}

	var (
		offset int    = 0
		limit  int    = 0
		sort   string = "-createdAt"
		qry    bson.M = bson.M{}
	)
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}
	if opts.Creator != nil {
		qry["creator"] = opts.Creator.ToLower()
	}
	if opts.Kind != nil {
		qry["kind"] = *opts.Kind
	}
	if opts.Status != nil {
		qry["status"] = *opts.Status
	}
	if opts.EndTimeLT != nil {
		qry["endTime"] = bson.M{"$lt": *opts.EndTimeLT}
	}

	auctions := []*auction.Auction{}
	if err := r.q.Search(ctx, domain.TableAuctions, offset, limit, sort, qry, &auctions); err != nil {
		ctx.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return auctions, nil
}

func (r *auctionRepoImpl) FindOne(ctx bCtx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	qry := bson.M{"auctionId": id}
	res := &auction.Auction{}
	if err := r.q.FindOne(ctx, domain.TableAuctions, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *auctionRepoImpl) Insert(ctx bCtx.Ctx, a *auction.Auction) error {
	copy := *a
	copy.Creator = a.Creator.ToLower()
	copy.AssetMint = a.AssetMint.ToLower()
	if err := r.q.Insert(ctx, domain.TableAuctions, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *auctionRepoImpl) Update(ctx bCtx.Ctx, id domain.AuctionId, patchable auction.Patchable) error {
	qry := bson.M{"auctionId": id}
	if val, err := mongoclient.MakeBsonM(patchable); err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := r.q.Patch(ctx, domain.TableAuctions, qry, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *auctionRepoImpl) Remove(ctx bCtx.Ctx, id domain.AuctionId) error {
	qry := bson.M{"auctionId": id}
	if err := r.q.Remove(ctx, domain.TableAuctions, qry); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Remove failed")
		return err
	}
	return nil
}

type auctionCounter struct {
	Key string `bson:"key"`
	Seq uint64 `bson:"seq"`
}

// NextAuctionId hands out monotonically increasing ids through an atomic
// counter document.
func (r *auctionRepoImpl) NextAuctionId(ctx bCtx.Ctx) (domain.AuctionId, error) {
	res := &auctionCounter{}
	qry := bson.M{"key": "auctionId"}
	if err := r.q.Increment(ctx, domain.TableCounters, qry, res, "seq", 1); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return 0, err
	}
	return domain.AuctionId(res.Seq), nil
}
