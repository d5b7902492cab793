package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/database/mongoclient"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/batch"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type batchRepoImpl struct {
	q query.Mongo
}

func NewBatchRepo(q query.Mongo) batch.Repo {
	return &batchRepoImpl{q: q}
}

func (r *batchRepoImpl) FindOne(ctx bCtx.Ctx, id domain.BatchId) (*batch.Batch, error) {
	qry := bson.M{"batchId": id}
	res := &batch.Batch{}
	if err := r.q.FindOne(ctx, domain.TableBatches, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (r *batchRepoImpl) Insert(ctx bCtx.Ctx, b *batch.Batch) error {
	copy := *b
	copy.Creator = b.Creator.ToLower()
	if err := r.q.Insert(ctx, domain.TableBatches, &copy); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *batchRepoImpl) Update(ctx bCtx.Ctx, id domain.BatchId, patchable batch.Patchable) error {
	qry := bson.M{"batchId": id}
	if val, err := mongoclient.MakeBsonM(patchable); err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := r.q.Patch(ctx, domain.TableBatches, qry, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
