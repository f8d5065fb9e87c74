package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/pmehta/splitbook/pkg/money"
)

// MergeBalances sums per-group balance maps into one overall balance per
// counterpart. The same rounding and near-zero filtering as GroupBalances
// applies to the merged totals, so debts that cancel out across groups
// disappear from the result.
//
// The per-group inputs are left untouched; callers commonly return both the
// merged view and the per-group breakdown.
func MergeBalances(perGroup map[string]map[string]decimal.Decimal) map[string]decimal.Decimal {
	acc := make(map[string]decimal.Decimal)
	for _, balances := range perGroup {
		for counterpart, amount := range balances {
			acc[counterpart] = acc[counterpart].Add(amount)
		}
	}

	merged := make(map[string]decimal.Decimal, len(acc))
	for counterpart, amount := range acc {
		amount = money.Round2(amount)
		if money.IsNegligible(amount) {
			continue
		}
		merged[counterpart] = amount
	}
	return merged
}
