// Package pricing holds the pure auction pricing engines. Every function
// iterates a fixed number of slots no matter how many bids are real, so the
// true bid count cannot leak through timing. Keep it that way.
package pricing

import (
	"github.com/shadowlabs-sol/shadow/domain"
)

// MaxBids is the fixed slot count of the sealed-bid engine.
const MaxBids = 64

type SealedBid struct {
	Amount uint64
	Bidder domain.PublicKey
}

type SealedBidOutcome struct {
	Winner        domain.PublicKey
	WinningAmount uint64
	SecondHighest uint64
	ReserveMet    bool
}

// RunSealedBid scans all MaxBids slots and resolves the Vickrey outcome: the
// highest valid bid wins but pays the second-highest, or its own amount when
// it is the only valid bid. Ties go to the first-seen slot. No valid bid is
// not an error; the outcome carries the zero sentinel.
func RunSealedBid(bids [MaxBids]SealedBid, count, minimumBid, reservePrice uint64) SealedBidOutcome {
	var (
		highest       uint64
		secondHighest uint64
		winner        = domain.EmptyPublicKey
		found         bool
	)

	for i := 0; i < MaxBids; i++ {
		amount := bids[i].Amount
		valid := uint64(i) < count &&
			amount > 0 &&
			amount >= minimumBid &&
			amount >= reservePrice

		if valid && amount > highest {
			secondHighest = highest
			highest = amount
			winner = bids[i].Bidder
			found = true
		} else if valid && amount > secondHighest {
			secondHighest = amount
		}
	}

	if !found {
		return SealedBidOutcome{Winner: domain.EmptyPublicKey}
	}

	winningAmount := secondHighest
	if winningAmount == 0 {
		// single valid bid pays its own amount
		winningAmount = highest
	}

	return SealedBidOutcome{
		Winner:        winner,
		WinningAmount: winningAmount,
		SecondHighest: secondHighest,
		ReserveMet:    winningAmount >= reservePrice,
	}
}
