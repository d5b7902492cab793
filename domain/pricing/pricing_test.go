package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadowlabs-sol/shadow/domain"
)

func pk(b byte) domain.PublicKey {
	var raw [32]byte
	raw[0] = b
	return domain.PublicKeyFromBytes(raw)
}

func sealedBids(amounts ...uint64) [MaxBids]SealedBid {
	var bids [MaxBids]SealedBid
	for i, amount := range amounts {
		bids[i] = SealedBid{Amount: amount, Bidder: pk(byte(i + 1))}
	}
	return bids
}

func TestSealedBidScenario(t *testing.T) {
	req := require.New(t)

	// minimum 100, reserve 150, bids [200, 180, 50]
	out := RunSealedBid(sealedBids(200, 180, 50), 3, 100, 150)
	req.Equal(pk(1), out.Winner)
	req.Equal(uint64(180), out.WinningAmount)
	req.True(out.ReserveMet)
}

func TestSealedBidWinnerHasMaximalBid(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		name    string
		amounts []uint64
		count   uint64
		winner  domain.PublicKey
	}{
		{"ascending", []uint64{10, 20, 30}, 3, pk(3)},
		{"descending", []uint64{30, 20, 10}, 3, pk(1)},
		{"middle", []uint64{10, 30, 20}, 3, pk(2)},
	}
	for _, c := range cases {
		out := RunSealedBid(sealedBids(c.amounts...), c.count, 0, 0)
		req.Equal(c.winner, out.Winner, c.name)
	}
}

func TestSealedBidTieBreaksToFirstSeen(t *testing.T) {
	req := require.New(t)

	out := RunSealedBid(sealedBids(500, 500, 500), 3, 0, 0)
	req.Equal(pk(1), out.Winner)
	req.Equal(uint64(500), out.WinningAmount)
}

func TestSealedBidClearingPriceNeverExceedsOwnBid(t *testing.T) {
	req := require.New(t)

	sets := [][]uint64{
		{100, 90, 80},
		{100},
		{55, 55},
		{1000, 1, 999},
	}
	for _, amounts := range sets {
		out := RunSealedBid(sealedBids(amounts...), uint64(len(amounts)), 0, 0)
		max := uint64(0)
		for _, a := range amounts {
			if a > max {
				max = a
			}
		}
		req.LessOrEqual(out.WinningAmount, max)
	}
}

func TestSealedBidSingleBidPaysOwnBid(t *testing.T) {
	req := require.New(t)

	out := RunSealedBid(sealedBids(300), 1, 100, 0)
	req.Equal(pk(1), out.Winner)
	req.Equal(uint64(300), out.WinningAmount)
}

func TestSealedBidNoValidBidIsSentinelNotError(t *testing.T) {
	req := require.New(t)

	// all below minimum
	out := RunSealedBid(sealedBids(10, 20, 30), 3, 100, 0)
	req.Equal(domain.EmptyPublicKey, out.Winner)
	req.Equal(uint64(0), out.WinningAmount)
	req.False(out.ReserveMet)

	// count zero masks every slot
	out = RunSealedBid(sealedBids(500, 600), 0, 0, 0)
	req.Equal(domain.EmptyPublicKey, out.Winner)
	req.Equal(uint64(0), out.WinningAmount)
}

func TestSealedBidCountMasksTrailingSlots(t *testing.T) {
	req := require.New(t)

	// slot 2 holds the largest amount but sits past the declared count
	out := RunSealedBid(sealedBids(100, 90, 1000), 2, 0, 0)
	req.Equal(pk(1), out.Winner)
	req.Equal(uint64(90), out.WinningAmount)
}

func TestDutchPriceScenario(t *testing.T) {
	req := require.New(t)

	// start 1000, rate 10/s, floor 100, elapsed 50s
	req.Equal(uint64(500), DutchPrice(1000, 10, 100, 50))

	out := RunDutch(500, pk(1), 1000, 10, 100, 50)
	req.True(out.Accepted)
	req.Equal(pk(1), out.Winner)
	req.Equal(uint64(500), out.FinalPrice)
}

func TestDutchPriceNonIncreasing(t *testing.T) {
	req := require.New(t)

	prev := DutchPrice(1000, 7, 50, 0)
	for elapsed := uint64(1); elapsed < 400; elapsed += 13 {
		cur := DutchPrice(1000, 7, 50, elapsed)
		req.LessOrEqual(cur, prev)
		req.GreaterOrEqual(cur, uint64(50))
		prev = cur
	}
}

func TestDutchPriceSaturates(t *testing.T) {
	req := require.New(t)

	// decay past zero clamps to the floor
	req.Equal(uint64(100), DutchPrice(1000, 10, 100, 100000))
	// multiplication overflow clamps to the floor
	req.Equal(uint64(25), DutchPrice(1000, ^uint64(0), 25, ^uint64(0)))
	// zero floor never underflows
	req.Equal(uint64(0), DutchPrice(10, 100, 0, 5))
}

func TestDutchExactPriceAccepted(t *testing.T) {
	req := require.New(t)

	price := DutchPrice(1000, 10, 100, 30)
	out := RunDutch(price, pk(2), 1000, 10, 100, 30)
	req.True(out.Accepted)
	req.Equal(price, out.FinalPrice)
}

func TestDutchRejections(t *testing.T) {
	req := require.New(t)

	// bid one below price
	out := RunDutch(699, pk(1), 1000, 10, 100, 30)
	req.False(out.Accepted)
	req.Equal(domain.EmptyPublicKey, out.Winner)
	req.Equal(uint64(0), out.FinalPrice)

	// zero bidder identity
	out = RunDutch(700, domain.EmptyPublicKey, 1000, 10, 100, 30)
	req.False(out.Accepted)
}

func TestDutchClearingPriceIsDecayedPriceNotBid(t *testing.T) {
	req := require.New(t)

	out := RunDutch(900, pk(1), 1000, 10, 100, 50)
	req.True(out.Accepted)
	req.Equal(uint64(500), out.FinalPrice)
}

func TestAggregateBatchScenario(t *testing.T) {
	req := require.New(t)

	out, err := AggregateBatch([MaxBatchOutcomes]uint64{50, 0, 30}, 3)
	req.NoError(err)
	req.Equal(uint64(2), out.Successful)
	req.Equal(uint64(1), out.Failed)
	req.Equal(uint64(80), out.TotalVolume)
}

func TestAggregateBatchSizeMasksSlots(t *testing.T) {
	req := require.New(t)

	out, err := AggregateBatch([MaxBatchOutcomes]uint64{50, 60, 70}, 2)
	req.NoError(err)
	req.Equal(uint64(2), out.Successful)
	req.Equal(uint64(0), out.Failed)
	req.Equal(uint64(110), out.TotalVolume)
}

func TestAggregateBatchOverflow(t *testing.T) {
	req := require.New(t)

	_, err := AggregateBatch([MaxBatchOutcomes]uint64{^uint64(0), 1}, 2)
	req.ErrorIs(err, domain.ErrArithmeticOverflow)
}
