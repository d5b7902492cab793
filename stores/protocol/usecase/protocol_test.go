package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
	mProtocol "github.com/shadowlabs-sol/shadow/domain/protocol/mocks"
)

var mockCtx = ctx.Background()

func key(b byte) domain.PublicKey {
	var raw [32]byte
	for i := range raw {
		raw[i] = b
	}
	return domain.PublicKeyFromBytes(raw)
}

type protocolSuite struct {
	suite.Suite

	mockProtocol *mProtocol.Repo
	subject      *impl
}

func TestProtocolSuite(t *testing.T) {
	suite.Run(t, new(protocolSuite))
}

func (s *protocolSuite) SetupTest() {
	s.mockProtocol = &mProtocol.Repo{}
	s.subject = &impl{
		protocolRepo: s.mockProtocol,
		met:          metrics.New("protocol"),
	}
}

func (s *protocolSuite) givenState(state *protocol.State) {
	s.mockProtocol.On("Get", mockCtx).Return(state, nil)
}

func (s *protocolSuite) TestInitialize() {
	s.mockProtocol.On("Get", mockCtx).Return(nil, domain.ErrNotFound).Once()
	s.mockProtocol.On("Insert", mockCtx, mock.MatchedBy(func(st *protocol.State) bool {
		return st.Authority == key(0xaa) && st.FeeRecipient == key(0xfe) && !st.Paused
	})).Return(nil)
	s.mockProtocol.On("Get", mockCtx).Return(&protocol.State{
		Authority:    key(0xaa),
		FeeRecipient: key(0xfe),
	}, nil)

	state, err := s.subject.Initialize(mockCtx, key(0xaa), key(0xfe))
	s.NoError(err)
	s.Equal(key(0xaa), state.Authority)
	s.mockProtocol.AssertExpectations(s.T())
}

func (s *protocolSuite) TestInitializeRejectsReinit() {
	s.givenState(&protocol.State{Authority: key(0xaa)})

	_, err := s.subject.Initialize(mockCtx, key(0xbb), key(0xfe))
	s.Equal(domain.ErrUnauthorized, err)
	s.mockProtocol.AssertNotCalled(s.T(), "Insert", mock.Anything, mock.Anything)
}

func (s *protocolSuite) TestSetPaused() {
	s.givenState(&protocol.State{Authority: key(0xaa)})
	s.mockProtocol.On("Update", mockCtx, mock.MatchedBy(func(p protocol.Patchable) bool {
		return p.Paused != nil && *p.Paused
	})).Return(nil)

	s.NoError(s.subject.SetPaused(mockCtx, key(0xaa), true))
	s.mockProtocol.AssertExpectations(s.T())
}

func (s *protocolSuite) TestSetPausedRejectsNonAuthority() {
	s.givenState(&protocol.State{Authority: key(0xaa)})

	s.Equal(domain.ErrUnauthorized, s.subject.SetPaused(mockCtx, key(0xbb), true))
	s.mockProtocol.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *protocolSuite) TestUpdateFee() {
	s.givenState(&protocol.State{Authority: key(0xaa)})
	s.mockProtocol.On("Update", mockCtx, mock.MatchedBy(func(p protocol.Patchable) bool {
		return p.FeeBps != nil && *p.FeeBps == 500
	})).Return(nil)

	s.NoError(s.subject.UpdateFee(mockCtx, key(0xaa), 500))
}

func (s *protocolSuite) TestUpdateFeeRejectsAboveCap() {
	s.givenState(&protocol.State{Authority: key(0xaa)})

	s.Equal(domain.ErrBadParamInput, s.subject.UpdateFee(mockCtx, key(0xaa), protocol.MaxFeeBps+1))
	s.mockProtocol.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *protocolSuite) TestUpdateFeeRecipientRejectsEmpty() {
	s.givenState(&protocol.State{Authority: key(0xaa)})

	s.Equal(domain.ErrBadParamInput, s.subject.UpdateFeeRecipient(mockCtx, key(0xaa), domain.EmptyPublicKey))
}

func (s *protocolSuite) TestAuthorityTransfer() {
	s.givenState(&protocol.State{Authority: key(0xaa)})
	s.mockProtocol.On("Update", mockCtx, mock.MatchedBy(func(p protocol.Patchable) bool {
		return p.PendingAuthority != nil && *p.PendingAuthority == key(0xbb)
	})).Return(nil)

	s.NoError(s.subject.InitiateAuthorityTransfer(mockCtx, key(0xaa), key(0xbb)))
}

// only the pending key may complete, and completion clears the pending slot
func (s *protocolSuite) TestCompleteAuthorityTransfer() {
	s.givenState(&protocol.State{Authority: key(0xaa), PendingAuthority: key(0xbb)})
	s.mockProtocol.On("Update", mockCtx, mock.MatchedBy(func(p protocol.Patchable) bool {
		return p.Authority != nil && *p.Authority == key(0xbb) &&
			p.PendingAuthority != nil && *p.PendingAuthority == domain.EmptyPublicKey
	})).Return(nil)

	s.NoError(s.subject.CompleteAuthorityTransfer(mockCtx, key(0xbb)))
	s.mockProtocol.AssertExpectations(s.T())
}

func (s *protocolSuite) TestCompleteAuthorityTransferRejectsCurrentAuthority() {
	s.givenState(&protocol.State{Authority: key(0xaa), PendingAuthority: key(0xbb)})

	s.Equal(domain.ErrUnauthorized, s.subject.CompleteAuthorityTransfer(mockCtx, key(0xaa)))
}

func (s *protocolSuite) TestCompleteAuthorityTransferRejectsWhenNonePending() {
	s.givenState(&protocol.State{Authority: key(0xaa)})

	s.Equal(domain.ErrUnauthorized, s.subject.CompleteAuthorityTransfer(mockCtx, key(0xbb)))
}

func (s *protocolSuite) TestCancelAuthorityTransfer() {
	s.givenState(&protocol.State{Authority: key(0xaa), PendingAuthority: key(0xbb)})
	s.mockProtocol.On("Update", mockCtx, mock.MatchedBy(func(p protocol.Patchable) bool {
		return p.PendingAuthority != nil && *p.PendingAuthority == domain.EmptyPublicKey
	})).Return(nil)

	s.NoError(s.subject.CancelAuthorityTransfer(mockCtx, key(0xaa)))
}
