package settlement

import (
	"github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/domain"
)

// FeeDenominator converts basis points to an amount fraction.
const FeeDenominator = uint64(10_000)

type ExecuteParams struct {
	AuctionId     domain.AuctionId `json:"auctionId" validate:"required"`
	Winner        domain.PublicKey `json:"winner" validate:"required"`
	WinningAmount uint64           `json:"winningAmount" validate:"required"`
	PaymentMint   domain.PublicKey `json:"paymentMint" validate:"required"`
}

// UseCase moves funds for an authorized settlement. The caller restates
// winner and amount; both must match what the verified computation stored.
type UseCase interface {
	ExecuteSettlement(ctx ctx.Ctx, params ExecuteParams) error
}
