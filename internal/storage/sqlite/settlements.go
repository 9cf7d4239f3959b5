package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settleup-dev/settleup/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementPending
	}

	var groupID any
	if settlement.GroupID != "" {
		groupID = settlement.GroupID
	}
	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, currency, status, created_at, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, groupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), settlement.Currency, string(settlement.Status),
		settlement.CreatedAt, note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlements, err := s.querySettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, created_at, note
		 FROM settlements WHERE id = ?`,
		settlementID,
	)
	if err != nil {
		return nil, err
	}
	if len(settlements) == 0 {
		return nil, fmt.Errorf("settlement not found: %s", settlementID)
	}
	return &settlements[0], nil
}

// UpdateSettlementStatus moves a settlement to the given status.
func (s *SQLiteStore) UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ? WHERE id = ?",
		string(status), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check settlement update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement not found: %s", settlementID)
	}
	return nil
}

// ListSettlementsByUser returns settlements where the user is either side
// of the payment.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, created_at, note
		 FROM settlements WHERE from_user_id = ? OR to_user_id = ? ORDER BY created_at DESC`,
		userID, userID,
	)
}

// ListSettlementsByGroup retrieves all settlements for a group.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, created_at, note
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC`,
		groupID,
	)
}

func (s *SQLiteStore) querySettlements(ctx context.Context, query string, args ...any) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var (
			st      models.Settlement
			groupID sql.NullString
			amount  string
			status  string
			note    sql.NullString
		)
		if err := rows.Scan(&st.ID, &groupID, &st.FromUserID, &st.ToUserID, &amount, &st.Currency, &status, &st.CreatedAt, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if groupID.Valid {
			st.GroupID = groupID.String
		}
		if note.Valid {
			st.Note = note.String
		}
		st.Status = models.SettlementStatus(status)
		if st.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
