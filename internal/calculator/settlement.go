// Package calculator holds the pure settlement arithmetic: period
// aggregation, the debtor/creditor reduction and installment schedules.
// Nothing in this package touches storage.
package calculator

import (
	"math"
	"sort"
)

// Epsilon below which a balance counts as settled. Amounts are euros, so this
// is one cent.
const balanceEpsilon = 0.01

// Settlement is the single debtor → creditor transfer for a period. Both IDs
// are empty and Amount is 0 when no transfer is needed.
type Settlement struct {
	DebtorID   string
	CreditorID string
	Amount     float64
}

// RoundTo2 rounds a euro amount to 2 decimals, half away from zero.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Settle reduces per-member shareable spending to a single transfer.
//
// balance[u] = shareable[u] - perPersonShare. The member with the most
// negative balance is the debtor, the one with the most positive balance the
// creditor, and the amount is the smaller of the two magnitudes rounded to
// 2 decimals.
//
// This is deliberately a single-pair reduction, not full N-way netting: with
// more than two imbalanced members, only the largest-magnitude debtor and
// creditor are matched and the rest keep their residual. Preserved for
// compatibility with the historical settlement outcomes.
func Settle(shareable map[string]float64, perPersonShare float64) Settlement {
	if len(shareable) < 2 {
		return Settlement{}
	}

	// Sorted iteration keeps the winner deterministic on exact ties.
	ids := make([]string, 0, len(shareable))
	for id := range shareable {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var debtorID, creditorID string
	var minBalance, maxBalance float64
	for i, id := range ids {
		balance := shareable[id] - perPersonShare
		if i == 0 || balance < minBalance {
			minBalance = balance
			debtorID = id
		}
		if i == 0 || balance > maxBalance {
			maxBalance = balance
			creditorID = id
		}
	}

	// No significant imbalance: the period is already settled.
	if math.Abs(minBalance) < balanceEpsilon || math.Abs(maxBalance) < balanceEpsilon {
		return Settlement{}
	}

	amount := math.Min(math.Abs(minBalance), math.Abs(maxBalance))
	return Settlement{
		DebtorID:   debtorID,
		CreditorID: creditorID,
		Amount:     RoundTo2(amount),
	}
}
