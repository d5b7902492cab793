package pricing

import (
	"math/bits"

	"github.com/shadowlabs-sol/shadow/domain"
)

type DutchOutcome struct {
	Accepted   bool
	Winner     domain.PublicKey
	FinalPrice uint64
}

// DutchPrice computes the decayed price at the given elapsed time,
// saturating at the floor. A decay product that overflows u64 also
// saturates to the floor.
func DutchPrice(startingPrice, decreaseRate, floor, elapsed uint64) uint64 {
	hi, decrease := bits.Mul64(decreaseRate, elapsed)
	if hi != 0 || decrease >= startingPrice {
		return floor
	}
	price := startingPrice - decrease
	if price < floor {
		return floor
	}
	return price
}

// RunDutch evaluates a single bid against the current decayed price. On
// acceptance the clearing price is the decayed price, not the bid amount.
func RunDutch(bid uint64, bidder domain.PublicKey, startingPrice, decreaseRate, floor, elapsed uint64) DutchOutcome {
	price := DutchPrice(startingPrice, decreaseRate, floor, elapsed)
	if bid >= price && !bidder.IsEmpty() {
		return DutchOutcome{
			Accepted:   true,
			Winner:     bidder,
			FinalPrice: price,
		}
	}
	return DutchOutcome{Winner: domain.EmptyPublicKey}
}
