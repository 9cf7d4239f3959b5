// Package calculator implements the balance aggregation and debt
// simplification math. Everything here is pure: callers load the ledger
// records and supply a currency converter, the calculator only does
// arithmetic.
package calculator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

// epsilon is the noise threshold for balance comparisons. Accumulated
// positions with a smaller magnitude are treated as settled.
var epsilon = decimal.RequireFromString("0.01")

// Converter turns an amount in the given currency into the reference
// currency chosen by the caller. Implementations must not fail: a missing
// rate degrades to the identity factor upstream.
type Converter func(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal

// Identity is a Converter that performs no conversion.
func Identity(_ context.Context, amount decimal.Decimal, _ string) decimal.Decimal {
	return amount
}

// NetBalances walks expenses and settlements and accumulates a signed net
// position per user in the caller's reference currency.
//
// Algorithm:
//   - For each expense: each payer's balance increases by what they paid,
//     each split member's balance decreases by what they owe
//   - For each COMPLETED settlement: the payer's balance increases by the
//     amount, the receiver's decreases; PENDING settlements are ignored
//   - Users whose final magnitude is below 0.01 are dropped as noise
//
// Malformed records (no splits, splits not summing to the total) are
// accepted as-is: validation happens at creation time, not here.
func NetBalances(ctx context.Context, expenses []models.Expense, settlements []models.Settlement, convert Converter) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	add := func(userID string, amount decimal.Decimal) {
		balances[userID] = balances[userID].Add(amount)
	}

	for _, e := range expenses {
		for _, p := range e.Payers {
			add(p.UserID, convert(ctx, p.AmountPaid, e.Currency))
		}
		for _, s := range e.Splits {
			add(s.UserID, convert(ctx, s.AmountOwed, e.Currency).Neg())
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		amount := convert(ctx, s.Amount, s.Currency)
		add(s.FromUserID, amount)
		add(s.ToUserID, amount.Neg())
	}

	for userID, balance := range balances {
		if balance.Abs().LessThan(epsilon) {
			delete(balances, userID)
		}
	}

	return balances
}
