package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

type party struct {
	userID string
	amount decimal.Decimal
}

// Simplify reduces a signed balance map to a small set of pairwise
// transfers that settles it. Pure function: same input, same output.
//
// Greedy matching: debtors sorted most-negative first, creditors sorted
// most-positive first, then a two-pointer walk transferring
// min(credit, debt) at each step. This clears the largest positions first
// and yields at most n-1 transfers for n non-zero balances. It is not
// guaranteed count-optimal for every distribution (that problem is
// NP-hard); the ordering is kept fixed so output is deterministic.
func Simplify(balances map[string]decimal.Decimal) []models.Transfer {
	var debtors, creditors []party
	for userID, amount := range balances {
		switch {
		case amount.LessThan(epsilon.Neg()):
			debtors = append(debtors, party{userID, amount})
		case amount.GreaterThan(epsilon):
			creditors = append(creditors, party{userID, amount})
		}
	}

	// User ID breaks ties so equal amounts sort the same way every run.
	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].amount.Equal(debtors[j].amount) {
			return debtors[i].amount.LessThan(debtors[j].amount)
		}
		return debtors[i].userID < debtors[j].userID
	})
	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].amount.Equal(creditors[j].amount) {
			return creditors[i].amount.GreaterThan(creditors[j].amount)
		}
		return creditors[i].userID < creditors[j].userID
	})

	var transfers []models.Transfer
	i, j := 0, 0 // i walks creditors, j walks debtors
	for i < len(creditors) && j < len(debtors) {
		credit := creditors[i].amount
		debt := debtors[j].amount.Neg()

		amount := credit
		if debt.LessThan(amount) {
			amount = debt
		}

		transfers = append(transfers, models.Transfer{
			From:   debtors[j].userID,
			To:     creditors[i].userID,
			Amount: amount.Round(2),
		})

		creditors[i].amount = credit.Sub(amount)
		debtors[j].amount = debtors[j].amount.Add(amount)

		if creditors[i].amount.LessThan(epsilon) {
			i++
		}
		if debtors[j].amount.Neg().LessThan(epsilon) {
			j++
		}
	}

	return transfers
}

// SumBalances totals a balance map. For a closed scope the result must be
// within noise of zero; anything else signals corrupt upstream data.
func SumBalances(balances map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, amount := range balances {
		sum = sum.Add(amount)
	}
	return sum
}
