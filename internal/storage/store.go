// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/settleup-dev/settleup/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer. Balance computation only ever
// reads through it; historical records are immutable once written, except
// for a settlement's PENDING to COMPLETED transition.
type Store interface {
	// CreateUser persists a new user. The ID field is populated by the
	// store if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateGroup persists a new group with its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID, including members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers adds user IDs to a group, ignoring duplicates.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateExpense persists an expense with its payers and splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, payers and splits included.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByUser returns every expense the user appears in as a
	// payer or split member, across all groups and personal expenses.
	ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error)

	// ListExpensesByGroup returns a group's expenses.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// UpdateSettlementStatus moves a settlement to the given status.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus) error

	// ListSettlementsByUser returns settlements where the user is either
	// side of the payment.
	ListSettlementsByUser(ctx context.Context, userID string) ([]models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
