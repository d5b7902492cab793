package pricing

import (
	"math/bits"

	"github.com/shadowlabs-sol/shadow/domain"
)

// MaxBatchOutcomes is the fixed slot count of the batch aggregation engine.
const MaxBatchOutcomes = 10

type BatchOutcome struct {
	Successful  uint64
	Failed      uint64
	TotalVolume uint64
}

// AggregateBatch partitions per-auction settlement amounts into successful
// (amount > 0) and failed, summing successful volume with checked adds.
// No single-auction detail leaves this layer.
func AggregateBatch(results [MaxBatchOutcomes]uint64, size uint64) (BatchOutcome, error) {
	var out BatchOutcome

	for i := 0; i < MaxBatchOutcomes; i++ {
		if uint64(i) >= size {
			continue
		}
		if results[i] > 0 {
			out.Successful++
			sum, carry := bits.Add64(out.TotalVolume, results[i], 0)
			if carry != 0 {
				return BatchOutcome{}, domain.ErrArithmeticOverflow
			}
			out.TotalVolume = sum
		} else {
			out.Failed++
		}
	}

	return out, nil
}
