package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/auction"
	mAuction "github.com/shadowlabs-sol/shadow/domain/auction/mocks"
	"github.com/shadowlabs-sol/shadow/domain/batch"
	mBatch "github.com/shadowlabs-sol/shadow/domain/batch/mocks"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/event"
	mEvent "github.com/shadowlabs-sol/shadow/domain/event/mocks"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	mProtocol "github.com/shadowlabs-sol/shadow/domain/protocol/mocks"
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

type batchSuite struct {
	suite.Suite

	mockBatches  *mBatch.Repo
	mockAuctions *mAuction.Repo
	mockProtocol *mProtocol.Repo
	mockEmitter  *mEvent.Emitter
	subject      *impl
}

func TestBatchSuite(t *testing.T) {
	suite.Run(t, new(batchSuite))
}

func (s *batchSuite) SetupTest() {
	s.mockBatches = &mBatch.Repo{}
	s.mockAuctions = &mAuction.Repo{}
	s.mockProtocol = &mProtocol.Repo{}
	s.mockEmitter = &mEvent.Emitter{}
	s.subject = &impl{
		batchRepo:    s.mockBatches,
		auctionRepo:  s.mockAuctions,
		protocolRepo: s.mockProtocol,
		emitter:      s.mockEmitter,
		clock:        func() time.Time { return mockNow },
		met:          metrics.New("batch"),
	}
}

func (s *batchSuite) givenProtocolState(paused bool) {
	s.mockProtocol.On("Get", mockCtx).Return(&protocol.State{
		Authority:    key(0xaa),
		FeeBps:       250,
		FeeRecipient: key(0xfe),
		Paused:       paused,
	}, nil)
}

func (s *batchSuite) settlingBatch(id domain.BatchId) *batch.Batch {
	return &batch.Batch{
		BatchId:            id,
		Creator:            key(0x01),
		AuctionIds:         []domain.AuctionId{1, 2, 3},
		Status:             batch.StatusSettling,
		PendingComputation: commitment.DeriveRequestId(domain.AuctionId(id), 8000),
		CreatedAt:          8000,
	}
}

func (s *batchSuite) TestCreateBatch() {
	s.givenProtocolState(false)
	wantId := domain.BatchId(mockNow.UnixNano())

	s.mockBatches.On("Insert", mockCtx, mock.MatchedBy(func(b *batch.Batch) bool {
		return b.BatchId == wantId &&
			b.Status == batch.StatusSettling &&
			!b.PendingComputation.IsEmpty() &&
			b.CreatedAt == mockNow.Unix() &&
			len(b.AuctionIds) == 3
	})).Return(nil)
	s.mockEmitter.On("Emit", mockCtx, event.TypeBatchCreated, mock.MatchedBy(func(p event.BatchCreated) bool {
		return p.BatchId == wantId && p.AuctionCount == 3
	})).Return(nil)
	s.mockBatches.On("FindOne", mockCtx, wantId).Return(s.settlingBatch(wantId), nil)

	b, err := s.subject.CreateBatch(mockCtx, batch.CreateBatchParams{
		Creator:    key(0x01),
		AuctionIds: []domain.AuctionId{1, 2, 3},
	})
	s.NoError(err)
	s.Equal(batch.StatusSettling, b.Status)
	s.mockBatches.AssertExpectations(s.T())
}

func (s *batchSuite) TestCreateBatchRejectsPaused() {
	s.givenProtocolState(true)

	_, err := s.subject.CreateBatch(mockCtx, batch.CreateBatchParams{
		Creator:    key(0x01),
		AuctionIds: []domain.AuctionId{1},
	})
	s.Equal(domain.ErrProtocolPaused, err)
}

func (s *batchSuite) TestCreateBatchRejectsEmpty() {
	s.givenProtocolState(false)

	_, err := s.subject.CreateBatch(mockCtx, batch.CreateBatchParams{Creator: key(0x01)})
	s.Equal(domain.ErrInvalidBatchSize, err)
}

func (s *batchSuite) TestCreateBatchRejectsOversized() {
	s.givenProtocolState(false)

	ids := make([]domain.AuctionId, batch.MaxBatchSize+1)
	for i := range ids {
		ids[i] = domain.AuctionId(i + 1)
	}
	_, err := s.subject.CreateBatch(mockCtx, batch.CreateBatchParams{Creator: key(0x01), AuctionIds: ids})
	s.Equal(domain.ErrInvalidBatchSize, err)
}

func (s *batchSuite) TestReceiveCallback() {
	s.givenProtocolState(false)
	id := domain.BatchId(42)
	b := s.settlingBatch(id)

	s.mockBatches.On("FindOne", mockCtx, id).Return(b, nil)
	for i, winning := range []uint64{50, 0, 30} {
		s.mockAuctions.On("FindOne", mockCtx, domain.AuctionId(i+1)).Return(&auction.Auction{
			AuctionId:     domain.AuctionId(i + 1),
			Status:        auction.StatusEnded,
			WinningAmount: winning,
		}, nil)
	}
	s.mockBatches.On("Update", mockCtx, id, mock.MatchedBy(func(p batch.Patchable) bool {
		return p.Status != nil && *p.Status == batch.StatusSettled &&
			p.SettledAt != nil && *p.SettledAt == mockNow.Unix()
	})).Return(nil)
	s.mockEmitter.On("Emit", mockCtx, event.TypeBatchSettled, mock.MatchedBy(func(p event.BatchSettled) bool {
		return p.SettledCount == 2 && p.Successful == 2 && p.Failed == 1 && p.TotalVolume == 80
	})).Return(nil)

	// [settled_count:8 LE] = 2
	s.NoError(s.subject.ReceiveCallback(mockCtx, batch.CallbackParams{
		BatchId: id,
		Caller:  key(0xaa),
		Result:  []byte{2, 0, 0, 0, 0, 0, 0, 0},
	}))
	s.mockBatches.AssertExpectations(s.T())
	s.mockEmitter.AssertExpectations(s.T())
}

func (s *batchSuite) TestReceiveCallbackRejectsNonAuthority() {
	s.givenProtocolState(false)

	err := s.subject.ReceiveCallback(mockCtx, batch.CallbackParams{
		BatchId: 42,
		Caller:  key(0xbb),
		Result:  []byte{1, 0, 0, 0, 0, 0, 0, 0},
	})
	s.Equal(domain.ErrUnauthorized, err)
}

func (s *batchSuite) TestReceiveCallbackRejectsTerminal() {
	s.givenProtocolState(false)
	id := domain.BatchId(42)
	b := s.settlingBatch(id)
	b.Status = batch.StatusSettled

	s.mockBatches.On("FindOne", mockCtx, id).Return(b, nil)

	err := s.subject.ReceiveCallback(mockCtx, batch.CallbackParams{
		BatchId: id,
		Caller:  key(0xaa),
		Result:  []byte{1, 0, 0, 0, 0, 0, 0, 0},
	})
	s.Equal(domain.ErrInvalidAuctionStatus, err)
}

// a short buffer poisons the batch: it goes terminal failed and the
// network cannot retry it
func (s *batchSuite) TestReceiveCallbackMalformedFails() {
	s.givenProtocolState(false)
	id := domain.BatchId(42)

	s.mockBatches.On("FindOne", mockCtx, id).Return(s.settlingBatch(id), nil)
	s.mockBatches.On("Update", mockCtx, id, mock.MatchedBy(func(p batch.Patchable) bool {
		return p.Status != nil && *p.Status == batch.StatusFailed && p.SettledAt == nil
	})).Return(nil)

	err := s.subject.ReceiveCallback(mockCtx, batch.CallbackParams{
		BatchId: id,
		Caller:  key(0xaa),
		Result:  []byte{1, 2, 3},
	})
	s.Equal(domain.ErrMalformedResult, err)
	s.mockBatches.AssertExpectations(s.T())
}

func (s *batchSuite) TestReceiveCallbackSkipsMissingAuctions() {
	s.givenProtocolState(false)
	id := domain.BatchId(42)

	s.mockBatches.On("FindOne", mockCtx, id).Return(s.settlingBatch(id), nil)
	s.mockAuctions.On("FindOne", mockCtx, domain.AuctionId(1)).Return(nil, domain.ErrNotFound)
	s.mockAuctions.On("FindOne", mockCtx, domain.AuctionId(2)).Return(&auction.Auction{
		AuctionId:     2,
		Status:        auction.StatusSettled,
		WinningAmount: 70,
	}, nil)
	s.mockAuctions.On("FindOne", mockCtx, domain.AuctionId(3)).Return(nil, domain.ErrNotFound)
	s.mockBatches.On("Update", mockCtx, id, mock.Anything).Return(nil)
	s.mockEmitter.On("Emit", mockCtx, event.TypeBatchSettled, mock.MatchedBy(func(p event.BatchSettled) bool {
		return p.Successful == 1 && p.Failed == 2 && p.TotalVolume == 70
	})).Return(nil)

	s.NoError(s.subject.ReceiveCallback(mockCtx, batch.CallbackParams{
		BatchId: id,
		Caller:  key(0xaa),
		Result:  []byte{3, 0, 0, 0, 0, 0, 0, 0},
	}))
}
