package repository

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/shadowlabs-sol/shadow/base/ctx"
	"github.com/shadowlabs-sol/shadow/base/log"
	"github.com/shadowlabs-sol/shadow/domain"
	"github.com/shadowlabs-sol/shadow/domain/vault"
	"github.com/shadowlabs-sol/shadow/service/query"
)

type balanceDoc struct {
	Account domain.PublicKey `bson:"account"`
	Mint    domain.PublicKey `bson:"mint"`
	Amount  int64            `bson:"amount"`
}

type vaultRepoImpl struct {
	q query.Mongo
}

// NewVaultRepo keeps a per-account per-mint balance ledger. Multi-transfer
// exchanges run inside one mongo transaction so a failed leg rolls back
// every other leg.
func NewVaultRepo(q query.Mongo) vault.Service {
	return &vaultRepoImpl{q: q}
}

func (r *vaultRepoImpl) Escrow(ctx bCtx.Ctx, v, from, mint domain.PublicKey, amount uint64) error {
	return r.q.RunWithTransaction(ctx, func(c bCtx.Ctx) error {
		if err := r.debit(c, from, mint, amount); err != nil {
			return err
		}
		return r.credit(c, v, mint, amount)
	})
}

func (r *vaultRepoImpl) Release(ctx bCtx.Ctx, v, to, mint domain.PublicKey, amount uint64) error {
	return r.q.RunWithTransaction(ctx, func(c bCtx.Ctx) error {
		if err := r.debit(c, v, mint, amount); err != nil {
			return err
		}
		return r.credit(c, to, mint, amount)
	})
}

func (r *vaultRepoImpl) SettleExchange(ctx bCtx.Ctx, transfers []vault.Transfer) error {
	return r.q.RunWithTransaction(ctx, func(c bCtx.Ctx) error {
		for _, t := range transfers {
			if err := r.debit(c, t.From, t.Mint, t.Amount); err != nil {
				return err
			}
			if err := r.credit(c, t.To, t.Mint, t.Amount); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *vaultRepoImpl) Balance(ctx bCtx.Ctx, account, mint domain.PublicKey) (uint64, error) {
	qry := bson.M{"account": account.ToLower(), "mint": mint.ToLower()}
	res := &balanceDoc{}
	if err := r.q.FindOne(ctx, domain.TableBalances, qry, res); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return 0, err
	}
	return uint64(res.Amount), nil
}

func (r *vaultRepoImpl) debit(ctx bCtx.Ctx, account, mint domain.PublicKey, amount uint64) error {
	// the ledger is signed; an amount past MaxInt64 would wrap the $inc
	// into a credit
	if amount > math.MaxInt64 {
		return domain.ErrArithmeticOverflow
	}
	res := &balanceDoc{}
	qry := bson.M{"account": account.ToLower(), "mint": mint.ToLower()}
	if err := r.q.Increment(ctx, domain.TableBalances, qry, res, "amount", -int64(amount)); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return err
	}
	if res.Amount < 0 {
		// aborting the enclosing transaction restores the balance
		ctx.WithFields(log.Fields{
			"account": account,
			"mint":    mint,
			"amount":  amount,
		}).Warn("insufficient balance")
		return domain.ErrInvalidAssetAmount
	}
	return nil
}

func (r *vaultRepoImpl) credit(ctx bCtx.Ctx, account, mint domain.PublicKey, amount uint64) error {
	if amount > math.MaxInt64 {
		return domain.ErrArithmeticOverflow
	}
	res := &balanceDoc{}
	qry := bson.M{"account": account.ToLower(), "mint": mint.ToLower()}
	if err := r.q.Increment(ctx, domain.TableBalances, qry, res, "amount", int64(amount)); err != nil {
		ctx.WithField("err", err).Error("q.Increment failed")
		return err
	}
	return nil
}
