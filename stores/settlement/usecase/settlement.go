package usecase

import (
	"math/big"
	"math/bits"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/log"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/base/ptr"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/event"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	"github.com/shadowlabs-sol/shadow/domain/settlement"
	"github.com/shadowlabs-sol/shadow/domain/vault"
)

type SettlementUseCaseCfg struct {
	AuctionRepo  auction.Repo
	ProtocolRepo protocol.Repo
	Vault        vault.Service
	Emitter      event.Emitter
	Clock        func() time.Time
}

type impl struct {
	auctionRepo  auction.Repo
	protocolRepo protocol.Repo
	vault        vault.Service
	emitter      event.Emitter
	clock        func() time.Time
	met          metrics.Service
}

func New(cfg *SettlementUseCaseCfg) settlement.UseCase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &impl{
		auctionRepo:  cfg.AuctionRepo,
		protocolRepo: cfg.ProtocolRepo,
		vault:        cfg.Vault,
		emitter:      cfg.Emitter,
		clock:        clock,
		met:          metrics.New("settlement"),
	}
}

// checkedFee computes amount * feeBps / 10_000 without silent wrap.
func checkedFee(amount uint64, feeBps uint16) (uint64, error) {
	hi, lo := bits.Mul64(amount, uint64(feeBps))
	if hi != 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return lo / settlement.FeeDenominator, nil
}

func (im *impl) ExecuteSettlement(ctx ctx.Ctx, params settlement.ExecuteParams) error {
	defer im.met.BumpTime("execute.time").End()

	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return err
	}
	if state.Paused {
		return domain.ErrProtocolPaused
	}

	a, err := im.auctionRepo.FindOne(ctx, params.AuctionId)
	if err != nil {
		return err
	}

	// guards run in a fixed order and nothing mutates until all pass
	if !a.SettlementAuthorized {
		return domain.ErrSettlementNotAuthorized
	}
	if a.VerificationHash.IsEmpty() {
		return domain.ErrVerificationFailed
	}
	if a.Status == auction.StatusSettled {
		return domain.ErrAuctionAlreadySettled
	}
	if a.Status != auction.StatusEnded {
		return domain.ErrInvalidAuctionStatus
	}
	if a.Winner.IsEmpty() || !params.Winner.Equals(a.Winner) {
		return domain.ErrInvalidWinnerDetermination
	}
	if params.WinningAmount == 0 || params.WinningAmount != a.WinningAmount {
		return domain.ErrInvalidAssetAmount
	}

	vaultAcct := vaultAccount(a.AuctionId)
	escrowed, err := im.vault.Balance(ctx, vaultAcct, a.AssetMint)
	if err != nil {
		ctx.WithField("err", err).Error("vault.Balance failed")
		return err
	}
	if escrowed < a.AssetAmount {
		return domain.ErrInvalidAssetAmount
	}

	fee, err := checkedFee(a.WinningAmount, state.FeeBps)
	if err != nil {
		return err
	}
	payout := a.WinningAmount - fee

	transfers := []vault.Transfer{
		{From: vaultAcct, To: a.Winner, Mint: a.AssetMint, Amount: a.AssetAmount},
		{From: a.Winner, To: a.Creator, Mint: params.PaymentMint, Amount: payout},
	}
	if fee > 0 {
		transfers = append(transfers, vault.Transfer{
			From: a.Winner, To: state.FeeRecipient, Mint: params.PaymentMint, Amount: fee,
		})
	}

	// one atomic exchange: asset to the winner, payment to the creator,
	// fee to the recipient, or none of them
	if err := im.vault.SettleExchange(ctx, transfers); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": a.AuctionId}).Error("vault.SettleExchange failed")
		return err
	}

	now := im.clock().Unix()
	st := auction.StatusSettled
	if err := im.auctionRepo.Update(ctx, a.AuctionId, auction.Patchable{
		Status:    &st,
		SettledAt: ptr.Int64(now),
	}); err != nil {
		ctx.WithFields(log.Fields{"err": err, "auctionId": a.AuctionId}).Error("auctionRepo.Update failed")
		return err
	}

	if err := im.emitter.Emit(ctx, event.TypeAuctionSettled, event.AuctionSettled{
		AuctionId:     a.AuctionId,
		Winner:        a.Winner,
		WinningAmount: a.WinningAmount,
		DisplayAmount: decimal.NewFromBigInt(new(big.Int).SetUint64(a.WinningAmount), 0).String(),
		Fee:           fee,
		SettledAt:     now,
	}); err != nil {
		ctx.WithField("err", err).Warn("emitter.Emit failed")
	}

	return nil
}

func vaultAccount(id domain.AuctionId) domain.PublicKey {
	addr, _ := commitment.DeriveAddress(id)
	return domain.PublicKey(addr)
}
