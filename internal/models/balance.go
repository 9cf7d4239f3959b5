package models

import "github.com/shopspring/decimal"

// Transfer is a recommended payment from one user to another. It is a
// derived value, never a ledger entry: recomputed on every request and
// carried only in the response.
type Transfer struct {
	From   string          `json:"fromUserId"`
	To     string          `json:"toUserId"`
	Amount decimal.Decimal `json:"amount"`
}

// Dashboard summarizes one user's position: how much they owe, how much
// they are owed, and their edges of the simplified transfer set.
type Dashboard struct {
	YouOwe       decimal.Decimal `json:"youOwe"`
	YouAreOwed   decimal.Decimal `json:"youAreOwed"`
	Currency     string          `json:"currency"`
	Transactions []Transfer      `json:"simplifiedTransactions"`
}

// FriendBalance is the pairwise position between two users: positive
// Amount means the friend owes the requesting user.
type FriendBalance struct {
	FriendID string              `json:"friendId"`
	Amount   decimal.Decimal     `json:"amount"`
	Currency string              `json:"currency"`
	History  []FriendLedgerEntry `json:"history"`
}

// FriendLedgerEntry is one shared expense or settlement between two users,
// with its effect on the pairwise balance.
type FriendLedgerEntry struct {
	// Kind is "expense" or "settlement".
	Kind string `json:"kind"`

	ID    string `json:"id"`
	Title string `json:"title,omitempty"`

	// Effect is the signed change to the pairwise balance, in the
	// requesting user's reference currency.
	Effect decimal.Decimal `json:"effect"`

	CreatedAt int64 `json:"createdAt"`
}
