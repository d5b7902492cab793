package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	mAuction "github.com/shadowlabs-sol/shadow/domain/auction/mocks"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/event"
	mEvent "github.com/shadowlabs-sol/shadow/domain/event/mocks"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	mProtocol "github.com/shadowlabs-sol/shadow/domain/protocol/mocks"
	"github.com/shadowlabs-sol/shadow/domain/settlement"
	"github.com/shadowlabs-sol/shadow/domain/vault"
	mVault "github.com/shadowlabs-sol/shadow/domain/vault/mocks"
)

var (
	mockCtx = ctx.Background()
	mockNow = time.Unix(9000, 0)
)

func key(b byte) domain.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = b
	}
	return domain.PublicKeyFromBytes(raw)
}

func TestCheckedFee(t *testing.T) {
	req := require.New(t)

	fee, err := checkedFee(10_000, 250)
	req.NoError(err)
	req.Equal(uint64(250), fee)

	fee, err = checkedFee(180, 250)
	req.NoError(err)
	req.Equal(uint64(4), fee)

	_, err = checkedFee(^uint64(0), 1000)
	req.Equal(domain.ErrArithmeticOverflow, err)
}

type settlementSuite struct {
	suite.Suite

	mockAuctions *mAuction.Repo
	mockProtocol *mProtocol.Repo
	mockVault    *mVault.Service
	mockEmitter  *mEvent.Emitter
	subject      *impl
}

func TestSettlementSuite(t *testing.T) {
	suite.Run(t, new(settlementSuite))
}

func (s *settlementSuite) SetupTest() {
	s.mockAuctions = &mAuction.Repo{}
	s.mockProtocol = &mProtocol.Repo{}
	s.mockVault = &mVault.Service{}
	s.mockEmitter = &mEvent.Emitter{}
	s.subject = &impl{
		auctionRepo:  s.mockAuctions,
		protocolRepo: s.mockProtocol,
		vault:        s.mockVault,
		emitter:      s.mockEmitter,
		clock:        func() time.Time { return mockNow },
		met:          metrics.New("settlement"),
	}
}

func (s *settlementSuite) givenProtocolState(paused bool, feeBps uint16) {
	s.mockProtocol.On("Get", mockCtx).Return(&protocol.State{
		Authority:    key(0xaa),
		FeeBps:       feeBps,
		FeeRecipient: key(0xfe),
		Paused:       paused,
	}, nil)
}

func (s *settlementSuite) authorizedAuction(id domain.AuctionId) *auction.Auction {
	hash, _ := commitment.DeriveSettlementHash(id, key(0x03), 180, 3, 4500)
	return &auction.Auction{
		AuctionId:            id,
		Creator:              key(0x01),
		Kind:                 domain.AuctionKindSealed,
		AssetMint:            key(0x02),
		AssetAmount:          10,
		MinimumBid:           100,
		EndTime:              4500,
		Status:               auction.StatusEnded,
		Winner:               key(0x03),
		WinningAmount:        180,
		VerificationHash:     hash,
		SettlementAuthorized: true,
	}
}

func (s *settlementSuite) executeParams(id domain.AuctionId) settlement.ExecuteParams {
	return settlement.ExecuteParams{
		AuctionId:     id,
		Winner:        key(0x03),
		WinningAmount: 180,
		PaymentMint:   key(0x04),
	}
}

func (s *settlementSuite) TestExecuteSettlement() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	params := s.executeParams(id)

	// 180 * 250 / 10_000 = 4
	wantFee := uint64(4)
	wantPayout := uint64(176)
	vaultAcct := vaultAccount(id)

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	s.mockVault.On("Balance", mockCtx, vaultAcct, a.AssetMint).Return(uint64(10), nil)
	s.mockVault.On("SettleExchange", mockCtx, []vault.Transfer{
		{From: vaultAcct, To: a.Winner, Mint: a.AssetMint, Amount: 10},
		{From: a.Winner, To: a.Creator, Mint: params.PaymentMint, Amount: wantPayout},
		{From: a.Winner, To: key(0xfe), Mint: params.PaymentMint, Amount: wantFee},
	}).Return(nil)
	s.mockAuctions.On("Update", mockCtx, id, mock.MatchedBy(func(p auction.Patchable) bool {
		return p.Status != nil && *p.Status == auction.StatusSettled &&
			p.SettledAt != nil && *p.SettledAt == mockNow.Unix()
	})).Return(nil)
	s.mockEmitter.On("Emit", mockCtx, event.TypeAuctionSettled, mock.MatchedBy(func(p event.AuctionSettled) bool {
		return p.Fee == wantFee && p.DisplayAmount == "180"
	})).Return(nil)

	s.NoError(s.subject.ExecuteSettlement(mockCtx, params))
	s.mockVault.AssertExpectations(s.T())
}

func (s *settlementSuite) TestExecuteSettlementZeroFeeOmitsFeeLeg() {
	s.givenProtocolState(false, 0)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	params := s.executeParams(id)
	vaultAcct := vaultAccount(id)

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	s.mockVault.On("Balance", mockCtx, vaultAcct, a.AssetMint).Return(uint64(10), nil)
	s.mockVault.On("SettleExchange", mockCtx, mock.MatchedBy(func(ts []vault.Transfer) bool {
		return len(ts) == 2
	})).Return(nil)
	s.mockAuctions.On("Update", mockCtx, id, mock.Anything).Return(nil)
	s.mockEmitter.On("Emit", mockCtx, event.TypeAuctionSettled, mock.Anything).Return(nil)

	s.NoError(s.subject.ExecuteSettlement(mockCtx, params))
}

func (s *settlementSuite) TestExecuteSettlementRejectsPaused() {
	s.givenProtocolState(true, 250)
	s.Equal(domain.ErrProtocolPaused, s.subject.ExecuteSettlement(mockCtx, s.executeParams(7)))
}

func (s *settlementSuite) TestExecuteSettlementRejectsUnauthorized() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	a.SettlementAuthorized = false

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	s.Equal(domain.ErrSettlementNotAuthorized, s.subject.ExecuteSettlement(mockCtx, s.executeParams(id)))
}

func (s *settlementSuite) TestExecuteSettlementRejectsMissingHash() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	a.VerificationHash = domain.EmptyDigest

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	s.Equal(domain.ErrVerificationFailed, s.subject.ExecuteSettlement(mockCtx, s.executeParams(id)))
}

// settling twice must fail the second time: the status moved to settled and
// no transfer may repeat
func (s *settlementSuite) TestExecuteSettlementIdempotency() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	a.Status = auction.StatusSettled

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	s.Equal(domain.ErrAuctionAlreadySettled, s.subject.ExecuteSettlement(mockCtx, s.executeParams(id)))
	s.mockVault.AssertNotCalled(s.T(), "SettleExchange", mock.Anything, mock.Anything)
}

func (s *settlementSuite) TestExecuteSettlementRejectsWrongWinner() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	params := s.executeParams(id)
	params.Winner = key(0x99)

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	s.Equal(domain.ErrInvalidWinnerDetermination, s.subject.ExecuteSettlement(mockCtx, params))
}

func (s *settlementSuite) TestExecuteSettlementRejectsAmountMismatch() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)
	params := s.executeParams(id)
	params.WinningAmount = 181

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	s.Equal(domain.ErrInvalidAssetAmount, s.subject.ExecuteSettlement(mockCtx, params))
}

func (s *settlementSuite) TestExecuteSettlementRejectsShortEscrow() {
	s.givenProtocolState(false, 250)
	id := domain.AuctionId(7)
	a := s.authorizedAuction(id)

	s.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	s.mockVault.On("Balance", mockCtx, vaultAccount(id), a.AssetMint).Return(uint64(9), nil)

	s.Equal(domain.ErrInvalidAssetAmount, s.subject.ExecuteSettlement(mockCtx, s.executeParams(id)))
	s.mockVault.AssertNotCalled(s.T(), "SettleExchange", mock.Anything, mock.Anything)
}
