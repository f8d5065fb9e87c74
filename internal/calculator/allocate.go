// Package calculator implements the split-allocation and balance
// computation engine. Everything in this package is a pure function over
// its inputs: no storage, no caching, safe for concurrent use.
package calculator

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveAmount is returned when an allocation is requested for a
// zero or negative total.
var ErrNonPositiveAmount = errors.New("total amount must be positive")

// Share is one participant's allocated portion of a total amount.
type Share struct {
	UserID string
	Amount decimal.Decimal
}

// Allocate divides total equally among participants, in minor units (cents).
//
// Duplicates in participantIDs are removed, preserving the order of first
// occurrence. Each participant gets the largest equal share that does not
// exceed total/n; the first participant additionally absorbs the rounding
// remainder, so the shares always sum to total exactly. Reordering the
// participants changes who absorbs the remainder — that is deliberate,
// observable policy.
//
// An empty participant list (after deduplication) yields an empty result
// and no error; treating a zero-participant expense as invalid is the
// caller's job.
func Allocate(total decimal.Decimal, participantIDs []string) ([]Share, error) {
	if total.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}

	ids := dedupe(participantIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	n := decimal.NewFromInt(int64(len(ids)))

	// base = floor(total*100 / n) / 100
	base := total.Shift(2).Div(n).Floor().Shift(-2)
	remainder := total.Sub(base.Mul(n)).Round(2)

	shares := make([]Share, len(ids))
	for i, id := range ids {
		amount := base
		if i == 0 {
			amount = base.Add(remainder)
		}
		shares[i] = Share{UserID: id, Amount: amount}
	}
	return shares, nil
}

// dedupe removes duplicate IDs, keeping the first occurrence of each.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
