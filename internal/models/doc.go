// Package models defines the core domain records for SettleUp.
//
// # Ledger records
//
//   - Expense: a shared cost with payers and splits
//   - Settlement: a direct payment between two users (PENDING or COMPLETED)
//   - Group: a recurring set of users sharing expenses
//   - User: an account with a preferred reporting currency
//
// # Derived values
//
//   - Transfer, Dashboard, FriendBalance: computed fresh per request from
//     the ledger records, never persisted
//
// # Design principles
//
//  1. All money is shopspring/decimal; floats never touch balance math
//  2. Relationships use ID strings instead of pointers
//  3. Derived values carry no identity beyond the response they appear in
package models
