package protocol

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// MaxFeeBps caps the protocol fee at 10%.
const MaxFeeBps = uint16(1000)

// State is the process-wide protocol configuration. Core usecases only read
// it; mutations go through the authority-gated admin operations.
type State struct {
	Authority        domain.PublicKey `json:"authority" bson:"authority"`
	PendingAuthority domain.PublicKey `json:"pendingAuthority,omitempty" bson:"pendingAuthority,omitempty"`
	FeeBps           uint16           `json:"feeBps" bson:"feeBps"`
	FeeRecipient     domain.PublicKey `json:"feeRecipient" bson:"feeRecipient"`
	Paused           bool             `json:"paused" bson:"paused"`
	Bump             uint8            `json:"bump" bson:"bump"`
}

type Patchable struct {
	Authority        *domain.PublicKey `bson:"authority,omitempty"`
	PendingAuthority *domain.PublicKey `bson:"pendingAuthority,omitempty"`
	FeeBps           *uint16           `bson:"feeBps,omitempty"`
	FeeRecipient     *domain.PublicKey `bson:"feeRecipient,omitempty"`
	Paused           *bool             `bson:"paused,omitempty"`
}

type Repo interface {
	Get(ctx ctx.Ctx) (*State, error)
	Insert(ctx ctx.Ctx, state *State) error
	Update(ctx ctx.Ctx, patchable Patchable) error
}

type UseCase interface {
	Initialize(ctx ctx.Ctx, authority, feeRecipient domain.PublicKey) (*State, error)
	SetPaused(ctx ctx.Ctx, caller domain.PublicKey, paused bool) error
	UpdateFee(ctx ctx.Ctx, caller domain.PublicKey, feeBps uint16) error
	UpdateFeeRecipient(ctx ctx.Ctx, caller, recipient domain.PublicKey) error
	InitiateAuthorityTransfer(ctx ctx.Ctx, caller, newAuthority domain.PublicKey) error
	CompleteAuthorityTransfer(ctx ctx.Ctx, caller domain.PublicKey) error
	CancelAuthorityTransfer(ctx ctx.Ctx, caller domain.PublicKey) error
}
