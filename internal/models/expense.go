package models

import "github.com/shopspring/decimal"

// Expense represents a shared expense paid by one or more users and split
// among participants. Amounts are exact decimals in the expense's currency.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to, or empty for a
	// personal (non-group) expense.
	GroupID string

	// Title is the human-readable description (e.g., "Dinner", "Rent").
	Title string

	// Total is the full expense amount, including everything the payers
	// put in. Invariant: sum of Payer amounts equals Total within 0.02.
	Total decimal.Decimal

	// Currency is the ISO 4217 code the amounts are denominated in.
	Currency string

	// Payers lists who actually paid money toward the total.
	Payers []Payer

	// Splits lists who owes what share of the total.
	Splits []Split

	// CreatedBy is the user ID who recorded this expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// Payer is one contributor to an expense total.
type Payer struct {
	UserID     string
	AmountPaid decimal.Decimal
}

// Split is one participant's share of an expense total.
type Split struct {
	UserID     string
	AmountOwed decimal.Decimal

	// Shares is the weight used to derive AmountOwed for share-based
	// splits. Zero for equal or exact splits; informational here, the
	// balance math only reads AmountOwed.
	Shares int64
}

// Participants returns the IDs of everyone touched by the expense,
// payers and split members alike, without duplicates.
func (e *Expense) Participants() []string {
	seen := make(map[string]bool, len(e.Payers)+len(e.Splits))
	var ids []string
	for _, p := range e.Payers {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	for _, s := range e.Splits {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	return ids
}

// Involves reports whether the user appears as a payer or split member.
func (e *Expense) Involves(userID string) bool {
	for _, p := range e.Payers {
		if p.UserID == userID {
			return true
		}
	}
	for _, s := range e.Splits {
		if s.UserID == userID {
			return true
		}
	}
	return false
}
