package models

import "github.com/shopspring/decimal"

// SettlementStatus tracks whether a settlement payment has actually happened.
type SettlementStatus string

const (
	// SettlementPending means the payment was recorded but not confirmed.
	// Pending settlements have no effect on balances.
	SettlementPending SettlementStatus = "PENDING"

	// SettlementCompleted means the payment went through and participates
	// in balance math.
	SettlementCompleted SettlementStatus = "COMPLETED"
)

// Settlement represents a direct payment between two users to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to, or empty for a
	// settlement outside any group.
	GroupID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount in Currency.
	Amount decimal.Decimal

	// Currency is the ISO 4217 code the amount is denominated in.
	Currency string

	// Status is PENDING until the payment is confirmed.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Note is an optional description for the settlement.
	Note string
}
