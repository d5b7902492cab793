package usecase

import (
	"time"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/log"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/base/ptr"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	"github.com/shadowlabs-sol/shadow/domain/batch"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/event"
	"github.com/shadowlabs-sol/shadow/domain/pricing"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
)

type BatchUseCaseCfg struct {
	BatchRepo    batch.Repo
	AuctionRepo  auction.Repo
	ProtocolRepo protocol.Repo
	Emitter      event.Emitter
	Clock        func() time.Time
}

type impl struct {
	batchRepo    batch.Repo
	auctionRepo  auction.Repo
	protocolRepo protocol.Repo
	emitter      event.Emitter
	clock        func() time.Time
	met          metrics.Service
}

func New(cfg *BatchUseCaseCfg) batch.UseCase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		batchRepo:    cfg.BatchRepo,
		auctionRepo:  cfg.AuctionRepo,
		protocolRepo: cfg.ProtocolRepo,
		emitter:      cfg.Emitter,
		clock:        clock,
		met:          metrics.New("batch"),
	}
}

func (im *impl) CreateBatch(ctx ctx.Ctx, params batch.CreateBatchParams) (*batch.Batch, error) {
	defer im.met.BumpTime("create.time").End()

	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return nil, err
	}
	if state.Paused {
		return nil, domain.ErrProtocolPaused
	}

	if len(params.AuctionIds) == 0 || len(params.AuctionIds) > batch.MaxBatchSize {
		return nil, domain.ErrInvalidBatchSize
	}

	now := im.clock()
	batchId := domain.BatchId(now.UnixNano())
	_, bump := commitment.DeriveAddress(domain.AuctionId(batchId))

	// the record is born settling: the computation request goes out with
	// the insert, there is no idle created phase to resume from
	b := &batch.Batch{
		BatchId:            batchId,
		Creator:            params.Creator,
		AuctionIds:         params.AuctionIds,
		Status:             batch.StatusSettling,
		PendingComputation: commitment.DeriveRequestId(domain.AuctionId(batchId), now.Unix()),
		CreatedAt:          now.Unix(),
		Bump:               bump,
	}
	if err := im.batchRepo.Insert(ctx, b); err != nil {
		ctx.WithField("err", err).Error("batchRepo.Insert failed")
		return nil, err
	}

	if err := im.emitter.Emit(ctx, event.TypeBatchCreated, event.BatchCreated{
		BatchId:      batchId,
		AuctionCount: uint64(len(params.AuctionIds)),
		CreatedAt:    now.Unix(),
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return im.batchRepo.FindOne(ctx, batchId)
}

func (im *impl) GetBatch(ctx ctx.Ctx, id domain.BatchId) (*batch.Batch, error) {
	defer im.met.BumpTime("get.time").End()
	return im.batchRepo.FindOne(ctx, id)
}

func (im *impl) ReceiveCallback(ctx ctx.Ctx, params batch.CallbackParams) error {
	defer im.met.BumpTime("callback.time").End()

	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return err
	}
	if !params.Caller.Equals(state.Authority) {
		return domain.ErrUnauthorized
	}

	b, err := im.batchRepo.FindOne(ctx, params.BatchId)
	if err != nil {
		return err
	}
	// terminal batches cannot be resubmitted
	if b.Status != batch.StatusSettling {
		return domain.ErrInvalidAuctionStatus
	}

	res, err := commitment.ParseBatchResult(params.Result)
	if err != nil {
		im.met.BumpSum("callback.malformed", 1)
		failed := batch.StatusFailed
		if uerr := im.batchRepo.Update(ctx, b.BatchId, batch.Patchable{Status: &failed}); uerr != nil {
			ctx.WithFields(log.Fields{"err": uerr, "batchId": b.BatchId}).Error("batchRepo.Update failed")
			return uerr
		}
		return err
	}

	var amounts [pricing.MaxBatchOutcomes]uint64
	for i, auctionId := range b.AuctionIds {
		a, err := im.auctionRepo.FindOne(ctx, auctionId)
		if err == domain.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		amounts[i] = a.WinningAmount
	}
	outcome, err := pricing.AggregateBatch(amounts, uint64(len(b.AuctionIds)))
	if err != nil {
		return err
	}

	now := im.clock().Unix()
	settled := batch.StatusSettled
	if err := im.batchRepo.Update(ctx, b.BatchId, batch.Patchable{
		Status:    &settled,
		SettledAt: ptr.Int64(now),
	}); err != nil {
		ctx.WithFields(log.Fields{"err": err, "batchId": b.BatchId}).Error("batchRepo.Update failed")
		return err
	}

	if err := im.emitter.Emit(ctx, event.TypeBatchSettled, event.BatchSettled{
		BatchId:      b.BatchId,
		SettledCount: res.SettledCount,
		Successful:   outcome.Successful,
		Failed:       outcome.Failed,
		TotalVolume:  outcome.TotalVolume,
		SettledAt:    now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return nil
}
