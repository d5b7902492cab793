package domain

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"
)

type Table string

const (
	TableAuctions Table = "auctions"
	TableBids     Table = "bids"
	TableBatches  Table = "batches"
	TableProtocol Table = "protocol"
	TableEvents   Table = "events"
	TableBalances Table = "balances"
	TableCounters Table = "counters"
)

type AuctionId uint64

func (id AuctionId) Uint64() uint64 {
	return uint64(id)
}

type BatchId uint64

type AuctionKind string

const (
	AuctionKindSealed AuctionKind = "sealed"
	AuctionKindDutch  AuctionKind = "dutch"
)

// PublicKey is the lowercase 0x-hex form of a 32-byte account identity.
type PublicKey string

const EmptyPublicKey = PublicKey("0x0000000000000000000000000000000000000000000000000000000000000000")

func PublicKeyFromBytes(b [32]byte) PublicKey {
	return PublicKey(hexutil.Encode(b[:]))
}

func (pk PublicKey) ToLower() PublicKey {
	return PublicKey(strings.ToLower(string(pk)))
}

func (pk PublicKey) IsEmpty() bool {
	return len(pk) == 0 || pk.ToLower() == EmptyPublicKey
}

func (pk PublicKey) Equals(other PublicKey) bool {
	return pk.ToLower() == other.ToLower()
}

// Bytes decodes the identity into its fixed 32-byte form.
func (pk PublicKey) Bytes() ([32]byte, error) {
	var out [32]byte
	raw, err := hexutil.Decode(string(pk))
	if err != nil {
		return out, xerrors.Errorf("decode public key %s: %w", pk, err)
	}
	if len(raw) != 32 {
		return out, xerrors.Errorf("public key %s is %d bytes, want 32", pk, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// Digest is the lowercase 0x-hex form of a 32-byte sha256 output.
type Digest string

const EmptyDigest = Digest("")

func DigestFromBytes(b [32]byte) Digest {
	return Digest(hexutil.Encode(b[:]))
}

func (d Digest) IsEmpty() bool {
	return len(d) == 0
}

func (d Digest) Equals(other Digest) bool {
	return strings.ToLower(string(d)) == strings.ToLower(string(other))
}

func (d Digest) Bytes() ([32]byte, error) {
	var out [32]byte
	raw, err := hexutil.Decode(string(d))
	if err != nil {
		return out, xerrors.Errorf("decode digest %s: %w", d, err)
	}
	if len(raw) != 32 {
		return out, xerrors.Errorf("digest %s is %d bytes, want 32", d, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// Ciphertext is the lowercase 0x-hex form of an opaque 32-byte encrypted blob.
type Ciphertext string

func CiphertextFromBytes(b [32]byte) Ciphertext {
	return Ciphertext(hexutil.Encode(b[:]))
}

func (c Ciphertext) Bytes() ([32]byte, error) {
	var out [32]byte
	raw, err := hexutil.Decode(string(c))
	if err != nil {
		return out, xerrors.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) != 32 {
		return out, xerrors.Errorf("ciphertext is %d bytes, want 32", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

// Nonce is a decimal-encoded unsigned 128-bit one-time value.
type Nonce string

var maxNonce = new(big.Int).Lsh(big.NewInt(1), 128)

func (n Nonce) IsZero() bool {
	v, err := n.BigInt()
	if err != nil {
		return false
	}
	return v.Sign() == 0
}

func (n Nonce) BigInt() (*big.Int, error) {
	v, ok := new(big.Int).SetString(string(n), 10)
	if !ok {
		return nil, xerrors.Errorf("invalid nonce %s", n)
	}
	if v.Sign() < 0 || v.Cmp(maxNonce) >= 0 {
		return nil, xerrors.Errorf("nonce %s out of u128 range", n)
	}
	return v, nil
}

// BytesLE encodes the nonce as a 16-byte little-endian value.
func (n Nonce) BytesLE() ([16]byte, error) {
	var out [16]byte
	v, err := n.BigInt()
	if err != nil {
		return out, err
	}
	be := v.Bytes()
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out, nil
}

// Uint64LE is a helper for the fixed little-endian field encoding shared by
// the commitment codec and the result parser.
func Uint64LE(v uint64) [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], v)
	return out
}

// Int64LE encodes a signed timestamp with the same byte order.
func Int64LE(v int64) [8]byte {
	return Uint64LE(uint64(v))
}
