package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settleup-dev/settleup/internal/models"
)

// CreateExpense persists an expense with its payers and splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID any
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, group_id, title, total, currency, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		expense.ID, groupID, expense.Title, expense.Total.String(), expense.Currency,
		expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, p := range expense.Payers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, user_id, amount_paid) VALUES (?, ?, ?)",
			expense.ID, p.UserID, p.AmountPaid.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}

	for _, sp := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount_owed, shares) VALUES (?, ?, ?, ?)",
			expense.ID, sp.UserID, sp.AmountOwed.String(), sp.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, payers and splits included.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx,
		"SELECT id, group_id, title, total, currency, created_by, created_at FROM expenses WHERE id = ?",
		expenseID,
	)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense not found: %s", expenseID)
	}
	return &expenses[0], nil
}

// ListExpensesByUser returns every expense the user appears in as a payer
// or split member.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT DISTINCT e.id, e.group_id, e.title, e.total, e.currency, e.created_by, e.created_at
		 FROM expenses e
		 LEFT JOIN expense_payers p ON p.expense_id = e.id
		 LEFT JOIN expense_splits sp ON sp.expense_id = e.id
		 WHERE p.user_id = ? OR sp.user_id = ?
		 ORDER BY e.created_at DESC`,
		userID, userID,
	)
}

// ListExpensesByGroup returns a group's expenses.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, group_id, title, total, currency, created_by, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at DESC`,
		groupID,
	)
}

// queryExpenses runs an expense query and hydrates payers and splits for
// each returned row.
func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var (
			e       models.Expense
			groupID sql.NullString
			total   string
		)
		if err := rows.Scan(&e.ID, &groupID, &e.Title, &total, &e.Currency, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if groupID.Valid {
			e.GroupID = groupID.String
		}
		if e.Total, err = scanDecimal(total); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if err := s.loadContributions(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) loadContributions(ctx context.Context, expense *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount_paid FROM expense_payers WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var (
			p      models.Payer
			amount string
		)
		if err := payerRows.Scan(&p.UserID, &amount); err != nil {
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		if p.AmountPaid, err = scanDecimal(amount); err != nil {
			return err
		}
		expense.Payers = append(expense.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount_owed, shares FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var (
			sp     models.Split
			amount string
		)
		if err := splitRows.Scan(&sp.UserID, &amount, &sp.Shares); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.AmountOwed, err = scanDecimal(amount); err != nil {
			return err
		}
		expense.Splits = append(expense.Splits, sp)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}

	return nil
}
