package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
	"github.com/settleup-dev/settleup/internal/storage"
)

// sumTolerance is how far payer and split totals may drift from an
// expense's total before the record is rejected.
var sumTolerance = decimal.RequireFromString("0.02")

// LedgerService handles writes: recording expenses and settlements,
// confirming settlements, and managing groups and users.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateExpense validates and persists a new expense. Consistency is
// enforced here so the balance math downstream can assume well-formed
// records: payer amounts and split amounts must each sum to the total
// within 0.02.
func (s *LedgerService) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.Total.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("expense total must be positive")
	}
	if expense.Currency == "" {
		return fmt.Errorf("expense currency required")
	}
	if len(expense.Payers) == 0 {
		return fmt.Errorf("expense needs at least one payer")
	}
	if len(expense.Splits) == 0 {
		return fmt.Errorf("expense needs at least one split")
	}

	paid := decimal.Zero
	for _, p := range expense.Payers {
		paid = paid.Add(p.AmountPaid)
	}
	if paid.Sub(expense.Total).Abs().GreaterThan(sumTolerance) {
		return fmt.Errorf("payer amounts sum to %s, expected %s", paid, expense.Total)
	}

	owed := decimal.Zero
	for _, sp := range expense.Splits {
		owed = owed.Add(sp.AmountOwed)
	}
	if owed.Sub(expense.Total).Abs().GreaterThan(sumTolerance) {
		return fmt.Errorf("split amounts sum to %s, expected %s", owed, expense.Total)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return err
	}

	s.autoAddParticipantsToGroup(ctx, expense.GroupID, expense.Participants())
	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "total", expense.Total)
	return nil
}

// autoAddParticipantsToGroup adds any expense participants not already in
// the group.
func (s *LedgerService) autoAddParticipantsToGroup(ctx context.Context, groupID string, participants []string) {
	if groupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", groupID, "error", err)
		return
	}

	memberSet := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		memberSet[m] = true
	}
	var newMembers []string
	for _, p := range participants {
		if !memberSet[p] {
			newMembers = append(newMembers, p)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, groupID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", groupID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", groupID, "new_members", newMembers)
}

// CreateSettlement records a new settlement. Settlements start PENDING and
// only affect balances once completed.
func (s *LedgerService) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("settlement amount must be positive")
	}
	if settlement.Currency == "" {
		return fmt.Errorf("settlement currency required")
	}
	if settlement.FromUserID == "" || settlement.ToUserID == "" {
		return fmt.Errorf("settlement needs both users")
	}
	if settlement.FromUserID == settlement.ToUserID {
		return fmt.Errorf("settlement cannot pay yourself")
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "error", err)
		return err
	}
	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
		"status", settlement.Status,
	)
	return nil
}

// CompleteSettlement confirms a pending settlement so it starts counting
// toward balances.
func (s *LedgerService) CompleteSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.Status == models.SettlementCompleted {
		return settlement, nil
	}

	if err := s.store.UpdateSettlementStatus(ctx, settlementID, models.SettlementCompleted); err != nil {
		slog.Error("CompleteSettlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}
	settlement.Status = models.SettlementCompleted
	slog.Info("Settlement completed", "settlement_id", settlementID)
	return settlement, nil
}

// CreateGroup creates a new group.
func (s *LedgerService) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.Name == "" {
		return fmt.Errorf("group name required")
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return err
	}
	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// CreateUser creates a new user account.
func (s *LedgerService) CreateUser(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return fmt.Errorf("user email required")
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID)
	return nil
}
