package vault

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// Transfer is one value movement between two accounts of the same mint.
type Transfer struct {
	From   domain.PublicKey `json:"from" bson:"from"`
	To     domain.PublicKey `json:"to" bson:"to"`
	Mint   domain.PublicKey `json:"mint" bson:"mint"`
	Amount uint64           `json:"amount" bson:"amount"`
}

// Service is the token-vault collaborator. Settlement relies on
// SettleExchange applying every transfer or none; a partial exchange must
// never be observable.
type Service interface {
	Escrow(ctx ctx.Ctx, vault, from, mint domain.PublicKey, amount uint64) error
	Release(ctx ctx.Ctx, vault, to, mint domain.PublicKey, amount uint64) error
	SettleExchange(ctx ctx.Ctx, transfers []Transfer) error
	Balance(ctx ctx.Ctx, account, mint domain.PublicKey) (uint64, error)
}
