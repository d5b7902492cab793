package commitment

import (
	"crypto/sha256"

	"github.com/shadowlabs-sol/shadow/domain"
)

// Domain-separation tags. Changing any of them invalidates every digest
// derived under the old protocol version.
const (
	requestTag      = "shadow_computation_request_v1"
	verificationTag = "shadow_mpc_verification_v1"
	addressTag      = "shadow_auction_v1"
)

// Result buffer layout: [winner:32][amount:8 LE][verification_hash:32].
const (
	winnerSize    = 32
	amountSize    = 8
	hashSize      = 32
	ResultMinSize = winnerSize + amountSize + hashSize

	// Batch result layout: [settled_count:8 LE].
	BatchResultMinSize = 8
)

// Result is a parsed computation result.
type Result struct {
	Winner           domain.PublicKey
	WinningAmount    uint64
	VerificationHash domain.Digest
}

// BatchResult is a parsed batch computation result.
type BatchResult struct {
	SettledCount uint64
}

// DeriveRequestId binds a computation request to an immutable snapshot of
// auction identity and timing, so a callback cannot be replayed against a
// different auction or a mutated end time.
func DeriveRequestId(auctionId domain.AuctionId, endTime int64) domain.Digest {
	h := sha256.New()
	h.Write([]byte(requestTag))
	id := domain.Uint64LE(auctionId.Uint64())
	h.Write(id[:])
	end := domain.Int64LE(endTime)
	h.Write(end[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return domain.DigestFromBytes(out)
}

// DeriveSettlementHash re-derives the digest a genuine result buffer must
// embed. A forged or stale result with a plausible winner/amount pair still
// fails this check.
func DeriveSettlementHash(auctionId domain.AuctionId, winner domain.PublicKey, winningAmount, bidCount uint64, endTime int64) (domain.Digest, error) {
	winnerBytes, err := winner.Bytes()
	if err != nil {
		return domain.EmptyDigest, domain.ErrInvalidAuctionId
	}

	h := sha256.New()
	h.Write([]byte(verificationTag))
	id := domain.Uint64LE(auctionId.Uint64())
	h.Write(id[:])
	h.Write(winnerBytes[:])
	amount := domain.Uint64LE(winningAmount)
	h.Write(amount[:])
	count := domain.Uint64LE(bidCount)
	h.Write(count[:])
	end := domain.Int64LE(endTime)
	h.Write(end[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return domain.DigestFromBytes(out), nil
}

// DeriveAddress maps an auction id to its deterministic storage address and
// bump nonce.
func DeriveAddress(auctionId domain.AuctionId) (domain.Digest, uint8) {
	h := sha256.New()
	h.Write([]byte(addressTag))
	id := domain.Uint64LE(auctionId.Uint64())
	h.Write(id[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return domain.DigestFromBytes(out), out[31]
}

// ParseResult slices the fixed-layout result buffer. Any buffer shorter
// than the declared layout is a hard failure, never silently defaulted.
func ParseResult(buf []byte) (Result, error) {
	if len(buf) < ResultMinSize {
		return Result{}, domain.ErrMalformedResult
	}

	var winner [32]byte
	copy(winner[:], buf[:winnerSize])

	amount := uint64(0)
	for i := 0; i < amountSize; i++ {
		amount |= uint64(buf[winnerSize+i]) << (8 * i)
	}

	var hash [32]byte
	copy(hash[:], buf[winnerSize+amountSize:ResultMinSize])

	return Result{
		Winner:           domain.PublicKeyFromBytes(winner),
		WinningAmount:    amount,
		VerificationHash: domain.DigestFromBytes(hash),
	}, nil
}

// EncodeResult is the inverse of ParseResult, used by tests and by the
// local authorization path of dutch auctions.
func EncodeResult(res Result) ([]byte, error) {
	winner, err := res.Winner.Bytes()
	if err != nil {
		return nil, err
	}
	hash, err := res.VerificationHash.Bytes()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, ResultMinSize)
	buf = append(buf, winner[:]...)
	amount := domain.Uint64LE(res.WinningAmount)
	buf = append(buf, amount[:]...)
	buf = append(buf, hash[:]...)
	return buf, nil
}

// ParseBatchResult slices the fixed-layout batch result buffer.
func ParseBatchResult(buf []byte) (BatchResult, error) {
	if len(buf) < BatchResultMinSize {
		return BatchResult{}, domain.ErrMalformedResult
	}

	count := uint64(0)
	for i := 0; i < BatchResultMinSize; i++ {
		count |= uint64(buf[i]) << (8 * i)
	}
	return BatchResult{SettledCount: count}, nil
}

// ValidateCommitment is a cheap sanity gate over an encrypted bid, not a
// cryptographic proof. Confidentiality itself is delegated to the external
// computation network.
func ValidateCommitment(encrypted domain.Ciphertext, publicKey domain.PublicKey, nonce domain.Nonce, minimumBid uint64) error {
	n, err := nonce.BigInt()
	if err != nil || n.Sign() == 0 {
		return domain.ErrInvalidEncryption
	}

	pk, err := publicKey.Bytes()
	if err != nil || pk == [32]byte{} {
		return domain.ErrInvalidEncryption
	}

	blob, err := encrypted.Bytes()
	if err != nil || blob == [32]byte{} {
		return domain.ErrInvalidEncryption
	}

	// entropy floor: fewer than half the bytes may be zero
	zeros := 0
	for _, b := range blob {
		if b == 0 {
			zeros++
		}
	}
	if zeros >= len(blob)/2 {
		return domain.ErrInvalidEncryption
	}

	return nil
}
