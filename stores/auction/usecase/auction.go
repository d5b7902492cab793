package usecase

import (
	"time"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/log"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/base/ptr"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/event"
	"github.com/shadowlabs-sol/shadow/domain/pricing"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	"github.com/shadowlabs-sol/shadow/domain/vault"
)

// DefaultGracePeriod is how long after the end time an unsettled auction
// stays untouchable before Cleanup may reclaim it.
const DefaultGracePeriod = 24 * time.Hour

type AuctionUseCaseCfg struct {
	AuctionRepo  auction.Repo
	BidRepo      auction.BidRepo
	ProtocolRepo protocol.Repo
	Vault        vault.Service
	Emitter      event.Emitter
	GracePeriod  time.Duration
	Clock        func() time.Time
}

type impl struct {
	auctionRepo  auction.Repo
	bidRepo      auction.BidRepo
	protocolRepo protocol.Repo
	vault        vault.Service
	emitter      event.Emitter
	gracePeriod  time.Duration
	clock        func() time.Time
	met          metrics.Service
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	grace := cfg.GracePeriod
	if grace == 0 {
		grace = DefaultGracePeriod
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		auctionRepo:  cfg.AuctionRepo,
		bidRepo:      cfg.BidRepo,
		protocolRepo: cfg.ProtocolRepo,
		vault:        cfg.Vault,
		emitter:      cfg.Emitter,
		gracePeriod:  grace,
		clock:        clock,
		met:          metrics.New("auction"),
	}
}

// requireUnpaused loads protocol state and rejects every mutation while the
// protocol is paused.
func (im *impl) requireUnpaused(ctx ctx.Ctx) (*protocol.State, error) {
	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return nil, err
	}
	if state.Paused {
		return nil, domain.ErrProtocolPaused
	}
	return state, nil
}

// vaultAccount maps an auction to its deterministic escrow account.
func vaultAccount(id domain.AuctionId) domain.PublicKey {
	addr, _ := commitment.DeriveAddress(id)
	return domain.PublicKey(addr)
}

// validateReserveCommitment is the creation-time sanity gate on the
// encrypted reserve price.
func validateReserveCommitment(encrypted domain.Ciphertext, nonce domain.Nonce) error {
	n, err := nonce.BigInt()
	if err != nil || n.Sign() == 0 {
		return domain.ErrInvalidEncryption
	}
	blob, err := encrypted.Bytes()
	if err != nil || blob == [32]byte{} {
		return domain.ErrInvalidEncryption
	}
	return nil
}

func (im *impl) CreateSealedAuction(ctx ctx.Ctx, params auction.CreateSealedAuctionParams) (*auction.Auction, error) {
	defer im.met.BumpTime("createSealed.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return nil, err
	}
	if params.Duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if params.AssetAmount == 0 {
		return nil, domain.ErrInvalidAssetAmount
	}
	if err := validateReserveCommitment(params.ReservePriceEncrypted, params.ReservePriceNonce); err != nil {
		return nil, err
	}

	return im.createAuction(ctx, &auction.Auction{
		Creator:               params.Creator,
		Kind:                  domain.AuctionKindSealed,
		AssetMint:             params.AssetMint,
		AssetAmount:           params.AssetAmount,
		MinimumBid:            params.MinimumBid,
		ReservePriceEncrypted: params.ReservePriceEncrypted,
		ReservePriceNonce:     params.ReservePriceNonce,
	}, params.Duration)
}

func (im *impl) CreateDutchAuction(ctx ctx.Ctx, params auction.CreateDutchAuctionParams) (*auction.Auction, error) {
	defer im.met.BumpTime("createDutch.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return nil, err
	}
	if params.Duration <= 0 {
		return nil, domain.ErrInvalidDuration
	}
	if params.AssetAmount == 0 {
		return nil, domain.ErrInvalidAssetAmount
	}
	if params.StartingPrice == 0 || params.PriceFloor > params.StartingPrice {
		return nil, domain.ErrBadParamInput
	}
	if err := validateReserveCommitment(params.ReservePriceEncrypted, params.ReservePriceNonce); err != nil {
		return nil, err
	}

	return im.createAuction(ctx, &auction.Auction{
		Creator:               params.Creator,
		Kind:                  domain.AuctionKindDutch,
		AssetMint:             params.AssetMint,
		AssetAmount:           params.AssetAmount,
		MinimumBid:            params.PriceFloor,
		ReservePriceEncrypted: params.ReservePriceEncrypted,
		ReservePriceNonce:     params.ReservePriceNonce,
		StartingPrice:         params.StartingPrice,
		PriceDecreaseRate:     params.PriceDecreaseRate,
		PriceFloor:            params.PriceFloor,
	}, params.Duration)
}

func (im *impl) createAuction(ctx ctx.Ctx, a *auction.Auction, duration int64) (*auction.Auction, error) {
	id, err := im.auctionRepo.NextAuctionId(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("auctionRepo.NextAuctionId failed")
		return nil, err
	}

	now := im.clock().Unix()
	_, bump := commitment.DeriveAddress(id)

	a.AuctionId = id
	a.StartTime = now
	a.EndTime = now + duration
	a.CreatedAt = now
	a.Status = auction.StatusActive
	a.Winner = domain.EmptyPublicKey
	a.Bump = bump

	// escrow before the record becomes visible, so an active auction always
	// has its asset locked
	if err := im.vault.Escrow(ctx, vaultAccount(id), a.Creator, a.AssetMint, a.AssetAmount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("vault.Escrow failed")
		return nil, err
	}

	if err := im.auctionRepo.Insert(ctx, a); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("auctionRepo.Insert failed")
		return nil, err
	}

	created, err := im.auctionRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithField("err", err).Error("auctionRepo.FindOne failed")
		return nil, err
	}
	return created, nil
}

func (im *impl) GetAuction(ctx ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	a, err := im.auctionRepo.FindOne(ctx, id)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("auctionRepo.FindOne failed")
		return nil, err
	}
	return a, nil
}

func (im *impl) ListAuctions(ctx ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	defer im.met.BumpTime("list.time").End()

	res, err := im.auctionRepo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("auctionRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) SubmitBid(ctx ctx.Ctx, params auction.SubmitBidParams) error {
	defer im.met.BumpTime("submitBid.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return err
	}

	a, err := im.auctionRepo.FindOne(ctx, params.AuctionId)
	if err != nil {
		return err
	}
	if a.Kind != domain.AuctionKindSealed {
		return domain.ErrInvalidAuctionStatus
	}
	now := im.clock().Unix()
	if a.Status != auction.StatusActive || now >= a.EndTime {
		return domain.ErrInvalidAuctionStatus
	}

	if err := commitment.ValidateCommitment(params.AmountEncrypted, params.PublicKey, params.Nonce, a.MinimumBid); err != nil {
		return err
	}

	bidId := auction.BidId{AuctionId: params.AuctionId, Bidder: params.Bidder.ToLower()}
	existing, err := im.bidRepo.FindOne(ctx, bidId)
	if err != nil && err != domain.ErrNotFound {
		return err
	}
	if existing != nil {
		// a rebid must carry a fresh nonce
		if existing.Nonce == params.Nonce {
			return domain.ErrInvalidEncryption
		}
	} else {
		count, err := im.bidRepo.Count(ctx, params.AuctionId)
		if err != nil {
			return err
		}
		if count >= pricing.MaxBids {
			return domain.ErrTooManyBids
		}
	}

	bid := &auction.Bid{
		AuctionId:       params.AuctionId,
		Bidder:          params.Bidder,
		AmountEncrypted: params.AmountEncrypted,
		Nonce:           params.Nonce,
		PublicKey:       params.PublicKey,
		SubmittedAt:     now,
	}
	if err := im.bidRepo.Upsert(ctx, bid); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": params.AuctionId}).Error("bidRepo.Upsert failed")
		return err
	}
	return nil
}

func (im *impl) SubmitDutchBid(ctx ctx.Ctx, params auction.SubmitDutchBidParams) (*auction.Auction, error) {
	defer im.met.BumpTime("submitDutchBid.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return nil, err
	}

	a, err := im.auctionRepo.FindOne(ctx, params.AuctionId)
	if err != nil {
		return nil, err
	}
	if a.Kind != domain.AuctionKindDutch {
		return nil, domain.ErrInvalidAuctionStatus
	}
	now := im.clock().Unix()
	if a.Status != auction.StatusActive || now >= a.EndTime || now < a.StartTime {
		return nil, domain.ErrInvalidAuctionStatus
	}

	elapsed := uint64(now - a.StartTime)
	outcome := pricing.RunDutch(params.BidAmount, params.Bidder, a.StartingPrice, a.PriceDecreaseRate, a.PriceFloor, elapsed)
	if !outcome.Accepted {
		return nil, domain.ErrBidTooLow
	}

	// first accepted bid wins; the auction settles at the decayed price and
	// the authorization hash is derived locally instead of waiting for an
	// external callback
	hash, err := commitment.DeriveSettlementHash(a.AuctionId, outcome.Winner, outcome.FinalPrice, 1, a.EndTime)
	if err != nil {
		return nil, err
	}

	patch := auction.Patchable{
		Status:               statusPtr(auction.StatusEnded),
		Winner:               ptrPublicKey(outcome.Winner),
		WinningAmount:        ptr.Uint64(outcome.FinalPrice),
		VerificationHash:     ptrDigest(hash),
		SettlementAuthorized: ptr.Bool(true),
	}
	if err := im.auctionRepo.Update(ctx, a.AuctionId, patch); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": a.AuctionId}).Error("auctionRepo.Update failed")
		return nil, err
	}

	if err := im.emitter.Emit(ctx, event.TypeSettlementVerified, event.SettlementVerified{
		AuctionId:        a.AuctionId,
		Winner:           outcome.Winner,
		WinningAmount:    outcome.FinalPrice,
		VerificationHash: hash,
		VerifiedAt:       now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return im.auctionRepo.FindOne(ctx, a.AuctionId)
}

func (im *impl) QueueComputation(ctx ctx.Ctx, params auction.QueueComputationParams) (domain.Digest, error) {
	defer im.met.BumpTime("queueComputation.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return domain.EmptyDigest, err
	}

	a, err := im.auctionRepo.FindOne(ctx, params.AuctionId)
	if err != nil {
		return domain.EmptyDigest, err
	}

	now := im.clock().Unix()
	endTime := a.EndTime
	patch := auction.Patchable{}

	switch {
	case a.Status == auction.StatusEnded:
	case a.Status == auction.StatusActive && now >= a.EndTime:
		// auto-end: the recorded end time snaps to the transition moment so
		// the request id binds to the time actually used
		endTime = now
		patch.Status = statusPtr(auction.StatusEnded)
		patch.EndTime = ptr.Int64(endTime)
	default:
		return domain.EmptyDigest, domain.ErrInvalidAuctionStatus
	}

	if a.HasPendingComputation() {
		return domain.EmptyDigest, domain.ErrInvalidAuctionStatus
	}

	count, err := im.bidRepo.Count(ctx, params.AuctionId)
	if err != nil {
		return domain.EmptyDigest, err
	}
	if count > pricing.MaxBids {
		return domain.EmptyDigest, domain.ErrInvalidBidCount
	}

	requestId := commitment.DeriveRequestId(a.AuctionId, endTime)
	patch.PendingComputation = ptrDigest(requestId)
	patch.ComputationIssuer = ptrPublicKey(params.Issuer)
	patch.ComputationBudget = ptr.Uint64(params.Budget)
	patch.ComputationQueuedAt = ptr.Int64(now)

	if err := im.auctionRepo.Update(ctx, a.AuctionId, patch); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": a.AuctionId}).Error("auctionRepo.Update failed")
		return domain.EmptyDigest, err
	}

	if err := im.emitter.Emit(ctx, event.TypeComputationQueued, event.ComputationQueued{
		AuctionId:     a.AuctionId,
		ComputationId: requestId,
		BidCount:      uint64(count),
		IssuerCluster: params.Issuer,
		Budget:        params.Budget,
		QueuedAt:      now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return requestId, nil
}

func (im *impl) ReceiveCallback(ctx ctx.Ctx, params auction.CallbackParams) error {
	defer im.met.BumpTime("receiveCallback.time").End()

	state, err := im.requireUnpaused(ctx)
	if err != nil {
		return err
	}
	if !params.Caller.Equals(state.Authority) {
		return domain.ErrUnauthorized
	}

	a, err := im.auctionRepo.FindOne(ctx, params.AuctionId)
	if err != nil {
		return err
	}
	if a.Status != auction.StatusEnded {
		return domain.ErrInvalidAuctionStatus
	}
	if a.SettlementAuthorized {
		return domain.ErrAuctionAlreadySettled
	}

	expectedId := commitment.DeriveRequestId(a.AuctionId, a.EndTime)
	if a.PendingComputation.IsEmpty() ||
		!params.ComputationId.Equals(a.PendingComputation) ||
		!params.ComputationId.Equals(expectedId) {
		return domain.ErrUnknownComputation
	}

	res, err := commitment.ParseResult(params.Result)
	if err != nil {
		// the one corrective mutation: a malformed result poisons the
		// auction instead of leaving it waiting forever
		im.met.BumpSum("callback.malformed", 1)
		if uerr := im.auctionRepo.Update(ctx, a.AuctionId, auction.Patchable{
			Status: statusPtr(auction.StatusCancelled),
		}); uerr != nil {
			ctx.WithFields(log.Fields{"err": uerr, "auctionId": a.AuctionId}).Error("cancel after malformed result failed")
		}
		return err
	}

	count, err := im.bidRepo.Count(ctx, a.AuctionId)
	if err != nil {
		return err
	}

	expectedHash, err := commitment.DeriveSettlementHash(a.AuctionId, res.Winner, res.WinningAmount, uint64(count), a.EndTime)
	if err != nil {
		return err
	}
	if !res.VerificationHash.Equals(expectedHash) {
		im.met.BumpSum("callback.verificationFailed", 1)
		return domain.ErrVerificationFailed
	}

	if res.WinningAmount == 0 || res.WinningAmount < a.MinimumBid {
		return domain.ErrBidTooLow
	}

	now := im.clock().Unix()
	patch := auction.Patchable{
		Winner:               ptrPublicKey(res.Winner),
		WinningAmount:        ptr.Uint64(res.WinningAmount),
		VerificationHash:     ptrDigest(res.VerificationHash),
		SettlementAuthorized: ptr.Bool(true),
	}
	if err := im.auctionRepo.Update(ctx, a.AuctionId, patch); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": a.AuctionId}).Error("auctionRepo.Update failed")
		return err
	}

	if err := im.emitter.Emit(ctx, event.TypeSettlementVerified, event.SettlementVerified{
		AuctionId:        a.AuctionId,
		Winner:           res.Winner,
		WinningAmount:    res.WinningAmount,
		VerificationHash: res.VerificationHash,
		VerifiedAt:       now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return nil
}

func (im *impl) Cleanup(ctx ctx.Ctx, id domain.AuctionId) error {
	defer im.met.BumpTime("cleanup.time").End()

	if _, err := im.requireUnpaused(ctx); err != nil {
		return err
	}

	a, err := im.auctionRepo.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if !a.Status.CanTransition(auction.StatusCancelled) {
		return domain.ErrInvalidAuctionStatus
	}

	now := im.clock().Unix()
	grace := int64(im.gracePeriod / time.Second)
	if a.Status != auction.StatusSettled && now < a.EndTime+grace {
		return domain.ErrAuctionNotEnded
	}

	// refund the escrowed asset when settlement never moved it; an
	// authorized-but-unexecuted settlement still leaves the asset in escrow
	refunded := uint64(0)
	if a.Status != auction.StatusSettled {
		if err := im.vault.Release(ctx, vaultAccount(id), a.Creator, a.AssetMint, a.AssetAmount); err != nil {
			ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("vault.Release failed")
			return err
		}
		refunded = a.AssetAmount
	}

	if err := im.bidRepo.RemoveAll(ctx, id); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("bidRepo.RemoveAll failed")
		return err
	}

	if err := im.auctionRepo.Update(ctx, id, auction.Patchable{
		Status: statusPtr(auction.StatusCancelled),
	}); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": id}).Error("auctionRepo.Update failed")
		return err
	}

	if err := im.emitter.Emit(ctx, event.TypeAuctionCleaned, event.AuctionCleaned{
		AuctionId: id,
		Refunded:  refunded,
		CleanedAt: now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return nil
}

func statusPtr(s auction.Status) *auction.Status {
	return &s
}

func ptrPublicKey(pk domain.PublicKey) *domain.PublicKey {
	return &pk
}

func ptrDigest(d domain.Digest) *domain.Digest {
	return &d
}
