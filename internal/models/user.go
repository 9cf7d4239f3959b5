package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique).
	Email string

	// PreferredCurrency is the ISO 4217 code balances are reported in
	// for this user. Empty means the server default applies.
	PreferredCurrency string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64
}
