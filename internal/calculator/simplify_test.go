package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name         string
		balances     map[string]decimal.Decimal
		validateFunc func(t *testing.T, transfers []models.Transfer)
	}{
		{
			name:     "noise within epsilon yields no transfers",
			balances: map[string]decimal.Decimal{"A": dec("0.005"), "B": dec("-0.005")},
			validateFunc: func(t *testing.T, transfers []models.Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %v", transfers)
				}
			},
		},
		{
			name:     "two-party exact",
			balances: map[string]decimal.Decimal{"A": dec("-100"), "B": dec("100")},
			validateFunc: func(t *testing.T, transfers []models.Transfer) {
				if len(transfers) != 1 {
					t.Fatalf("expected 1 transfer, got %d", len(transfers))
				}
				got := transfers[0]
				if got.From != "A" || got.To != "B" || !got.Amount.Equal(dec("100")) {
					t.Errorf("transfer = %+v, want A -> B 100", got)
				}
			},
		},
		{
			name:     "rounding stability",
			balances: map[string]decimal.Decimal{"user1": dec("-33.33"), "user2": dec("33.33")},
			validateFunc: func(t *testing.T, transfers []models.Transfer) {
				if len(transfers) != 1 {
					t.Fatalf("expected 1 transfer, got %d", len(transfers))
				}
				if !transfers[0].Amount.Equal(dec("33.33")) {
					t.Errorf("amount = %s, want 33.33", transfers[0].Amount)
				}
			},
		},
		{
			name:     "largest creditor paired with largest debtor first",
			balances: map[string]decimal.Decimal{"A": dec("200"), "B": dec("-150"), "C": dec("-50")},
			validateFunc: func(t *testing.T, transfers []models.Transfer) {
				if len(transfers) != 2 {
					t.Fatalf("expected 2 transfers, got %d", len(transfers))
				}
				if transfers[0].From != "B" || !transfers[0].Amount.Equal(dec("150")) {
					t.Errorf("first transfer = %+v, want B -> A 150", transfers[0])
				}
				if transfers[1].From != "C" || !transfers[1].Amount.Equal(dec("50")) {
					t.Errorf("second transfer = %+v, want C -> A 50", transfers[1])
				}
			},
		},
		{
			name:     "empty input",
			balances: map[string]decimal.Decimal{},
			validateFunc: func(t *testing.T, transfers []models.Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %v", transfers)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, Simplify(tt.balances))
		})
	}
}

// TestSimplify_Conservation replays the transfers against the input
// balances and checks everything settles to within epsilon of zero.
func TestSimplify_Conservation(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"A": dec("200"),
		"B": dec("-150"),
		"C": dec("-50"),
		"D": dec("75.25"),
		"E": dec("-75.25"),
	}

	transfers := Simplify(balances)

	total := decimal.Zero
	remaining := make(map[string]decimal.Decimal, len(balances))
	for userID, amount := range balances {
		remaining[userID] = amount
	}
	for _, tr := range transfers {
		total = total.Add(tr.Amount)
		remaining[tr.From] = remaining[tr.From].Add(tr.Amount)
		remaining[tr.To] = remaining[tr.To].Sub(tr.Amount)
	}

	if !total.Equal(dec("275.25")) {
		t.Errorf("total transferred = %s, want 275.25", total)
	}
	for userID, amount := range remaining {
		if amount.Abs().GreaterThanOrEqual(dec("0.01")) {
			t.Errorf("user %s left with residual %s", userID, amount)
		}
	}
}

// TestSimplify_TransactionBound checks the n-1 bound on transfer count.
func TestSimplify_TransactionBound(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"A": dec("10"),
		"B": dec("20"),
		"C": dec("30"),
		"D": dec("-15"),
		"E": dec("-25"),
		"F": dec("-20"),
	}

	transfers := Simplify(balances)
	if len(transfers) > len(balances)-1 {
		t.Errorf("got %d transfers for %d balances, want at most %d",
			len(transfers), len(balances), len(balances)-1)
	}
}

// TestSimplify_Deterministic verifies repeated runs produce identical
// output despite map iteration order.
func TestSimplify_Deterministic(t *testing.T) {
	balances := map[string]decimal.Decimal{
		"A": dec("50"),
		"B": dec("50"),
		"C": dec("-50"),
		"D": dec("-50"),
	}

	first := Simplify(balances)
	for run := 0; run < 20; run++ {
		// Simplify mutates its working copies, not the input map.
		again := Simplify(map[string]decimal.Decimal{
			"A": dec("50"), "B": dec("50"), "C": dec("-50"), "D": dec("-50"),
		})
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d transfers, want %d", run, len(again), len(first))
		}
		for i := range first {
			if first[i].From != again[i].From || first[i].To != again[i].To || !first[i].Amount.Equal(again[i].Amount) {
				t.Fatalf("run %d: transfer %d = %+v, want %+v", run, i, again[i], first[i])
			}
		}
	}
}
