package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/database/mongoclient"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	"github.com/shadowlabs-sol/shadow/service/query"
)

// stateKey keys the single protocol state document.
const stateKey = "protocol"

type stateDoc struct {
	Key string `bson:"key"`

	protocol.State `bson:",inline"`
}

type protocolRepoImpl struct {
	q query.Mongo
}

func NewProtocolRepo(q query.Mongo) protocol.Repo {
	return &protocolRepoImpl{q: q}
}

func (r *protocolRepoImpl) Get(ctx bCtx.Ctx) (*protocol.State, error) {
	qry := bson.M{"key": stateKey}
	res := &stateDoc{}
	if err := r.q.FindOne(ctx, domain.TableProtocol, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return &res.State, nil
}

func (r *protocolRepoImpl) Insert(ctx bCtx.Ctx, state *protocol.State) error {
	copy := *state
	copy.Authority = state.Authority.ToLower()
	copy.FeeRecipient = state.FeeRecipient.ToLower()
	doc := &stateDoc{Key: stateKey, State: copy}
	if err := r.q.Insert(ctx, domain.TableProtocol, doc); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *protocolRepoImpl) Update(ctx bCtx.Ctx, patchable protocol.Patchable) error {
	qry := bson.M{"key": stateKey}
	if val, err := mongoclient.MakeBsonM(patchable); err != nil {
		ctx.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	} else if err := r.q.Patch(ctx, domain.TableProtocol, qry, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.Patch failed")
		return err
	}
	return nil
}
