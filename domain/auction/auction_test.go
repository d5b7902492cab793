package auction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"created activates", StatusCreated, StatusActive, true},
		{"active ends", StatusActive, StatusEnded, true},
		{"ended settles", StatusEnded, StatusSettled, true},
		{"active cancels", StatusActive, StatusCancelled, true},
		{"ended cancels", StatusEnded, StatusCancelled, true},
		{"settled cleans up", StatusSettled, StatusCancelled, true},
		{"no regression to active", StatusEnded, StatusActive, false},
		{"no regression to created", StatusActive, StatusCreated, false},
		{"settled cannot re-end", StatusSettled, StatusEnded, false},
		{"cancelled is terminal", StatusCancelled, StatusActive, false},
		{"cancelled cannot settle", StatusCancelled, StatusSettled, false},
		{"created cannot skip to settled", StatusCreated, StatusSettled, false},
	}

	for _, c := range cases {
		req.Equal(c.ok, c.from.CanTransition(c.to), c.name)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	req := require.New(t)
	req.True(StatusCancelled.IsTerminal())
	req.False(StatusSettled.IsTerminal())
	req.False(StatusActive.IsTerminal())
}

func TestHasPendingComputation(t *testing.T) {
	req := require.New(t)

	a := &Auction{}
	req.False(a.HasPendingComputation())

	a.PendingComputation = "0x0101010101010101010101010101010101010101010101010101010101010101"
	req.True(a.HasPendingComputation())

	a.SettlementAuthorized = true
	req.False(a.HasPendingComputation())
}
