package usecase

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/metrics"
	"github.com/shadowlabs-sol/shadow/base/ptr"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/commitment"
	"github.com/shadowlabs-sol/shadow/domain/protocol"
)

type ProtocolUseCaseCfg struct {
	ProtocolRepo protocol.Repo
}

type impl struct {
	protocolRepo protocol.Repo
	met          metrics.Service
}

func New(cfg *ProtocolUseCaseCfg) protocol.UseCase {
	return &impl{
		protocolRepo: cfg.ProtocolRepo,
		met:          metrics.New("protocol"),
	}
}

// requireAuthority loads state and rejects callers other than the current
// authority.
func (im *impl) requireAuthority(ctx ctx.Ctx, caller domain.PublicKey) (*protocol.State, error) {
	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return nil, err
	}
	if !caller.Equals(state.Authority) {
		return nil, domain.ErrUnauthorized
	}
	return state, nil
}

func (im *impl) Initialize(ctx ctx.Ctx, authority, feeRecipient domain.PublicKey) (*protocol.State, error) {
	defer im.met.BumpTime("initialize.time").End()

	if _, err := im.protocolRepo.Get(ctx); err == nil {
		// a live deployment must not be re-initialized under a new authority
		return nil, domain.ErrUnauthorized
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	_, bump := commitment.DeriveAddress(0)
	state := &protocol.State{
		Authority:    authority,
		FeeRecipient: feeRecipient,
		Bump:         bump,
	}
	if err := im.protocolRepo.Insert(ctx, state); err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Insert failed")
		return nil, err
	}
	return im.protocolRepo.Get(ctx)
}

func (im *impl) SetPaused(ctx ctx.Ctx, caller domain.PublicKey, paused bool) error {
	defer im.met.BumpTime("setPaused.time").End()

	if _, err := im.requireAuthority(ctx, caller); err != nil {
		return err
	}
	return im.protocolRepo.Update(ctx, protocol.Patchable{Paused: ptr.Bool(paused)})
}

func (im *impl) UpdateFee(ctx ctx.Ctx, caller domain.PublicKey, feeBps uint16) error {
	defer im.met.BumpTime("updateFee.time").End()

	if _, err := im.requireAuthority(ctx, caller); err != nil {
		return err
	}
	if feeBps > protocol.MaxFeeBps {
		return domain.ErrBadParamInput
	}
	return im.protocolRepo.Update(ctx, protocol.Patchable{FeeBps: ptr.Uint16(feeBps)})
}

func (im *impl) UpdateFeeRecipient(ctx ctx.Ctx, caller, recipient domain.PublicKey) error {
	defer im.met.BumpTime("updateFeeRecipient.time").End()

	if _, err := im.requireAuthority(ctx, caller); err != nil {
		return err
	}
	if recipient.IsEmpty() {
		return domain.ErrBadParamInput
	}
	return im.protocolRepo.Update(ctx, protocol.Patchable{FeeRecipient: &recipient})
}

func (im *impl) InitiateAuthorityTransfer(ctx ctx.Ctx, caller, newAuthority domain.PublicKey) error {
	defer im.met.BumpTime("initiateTransfer.time").End()

	if _, err := im.requireAuthority(ctx, caller); err != nil {
		return err
	}
	if newAuthority.IsEmpty() {
		return domain.ErrBadParamInput
	}
	return im.protocolRepo.Update(ctx, protocol.Patchable{PendingAuthority: &newAuthority})
}

// CompleteAuthorityTransfer is the one admin call gated on the pending
// authority rather than the current one. The handover is not done until
// the new key claims it.
func (im *impl) CompleteAuthorityTransfer(ctx ctx.Ctx, caller domain.PublicKey) error {
	defer im.met.BumpTime("completeTransfer.time").End()

	state, err := im.protocolRepo.Get(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("protocolRepo.Get failed")
		return err
	}
	if state.PendingAuthority.IsEmpty() || !caller.Equals(state.PendingAuthority) {
		return domain.ErrUnauthorized
	}

	empty := domain.EmptyPublicKey
	return im.protocolRepo.Update(ctx, protocol.Patchable{
		Authority:        &state.PendingAuthority,
		PendingAuthority: &empty,
	})
}

func (im *impl) CancelAuthorityTransfer(ctx ctx.Ctx, caller domain.PublicKey) error {
	defer im.met.BumpTime("cancelTransfer.time").End()

	if _, err := im.requireAuthority(ctx, caller); err != nil {
		return err
	}
	empty := domain.EmptyPublicKey
	return im.protocolRepo.Update(ctx, protocol.Patchable{PendingAuthority: &empty})
}
