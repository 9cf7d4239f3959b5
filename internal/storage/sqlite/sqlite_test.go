package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateExpense generates ID and round-trips decimals exactly", func(t *testing.T) {
		expense := &models.Expense{
			Title:    "Dinner",
			Total:    dec("33.33"),
			Currency: "USD",
			Payers:   []models.Payer{{UserID: "alice", AmountPaid: dec("33.33")}},
			Splits: []models.Split{
				{UserID: "alice", AmountOwed: dec("11.11")},
				{UserID: "bob", AmountOwed: dec("11.11")},
				{UserID: "carol", AmountOwed: dec("11.11")},
			},
			CreatedBy: "alice",
		}

		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}
		if expense.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Total.Equal(dec("33.33")) {
			t.Errorf("Total = %s, want 33.33", got.Total)
		}
		if len(got.Payers) != 1 || !got.Payers[0].AmountPaid.Equal(dec("33.33")) {
			t.Errorf("Payers = %+v, want alice paying 33.33", got.Payers)
		}
		if len(got.Splits) != 3 {
			t.Fatalf("Splits = %d, want 3", len(got.Splits))
		}
		for _, sp := range got.Splits {
			if !sp.AmountOwed.Equal(dec("11.11")) {
				t.Errorf("Split %s = %s, want 11.11", sp.UserID, sp.AmountOwed)
			}
		}
	})

	t.Run("ListExpensesByUser covers payer and split involvement", func(t *testing.T) {
		paid := &models.Expense{
			Title:    "Taxi",
			Total:    dec("20"),
			Currency: "USD",
			Payers:   []models.Payer{{UserID: "dave", AmountPaid: dec("20")}},
			Splits:   []models.Split{{UserID: "erin", AmountOwed: dec("20")}},
		}
		if err := store.CreateExpense(ctx, paid); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		for _, userID := range []string{"dave", "erin"} {
			expenses, err := store.ListExpensesByUser(ctx, userID)
			if err != nil {
				t.Fatalf("ListExpensesByUser(%s) failed: %v", userID, err)
			}
			found := false
			for _, e := range expenses {
				if e.ID == paid.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("expected expense %s in %s's list", paid.ID, userID)
			}
		}
	})

	t.Run("ListExpensesByGroup only returns that group", func(t *testing.T) {
		groupA := &models.Group{Name: "Trip A", Members: []string{"alice", "bob"}}
		groupB := &models.Group{Name: "Trip B", Members: []string{"alice", "carol"}}
		if err := store.CreateGroup(ctx, groupA); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.CreateGroup(ctx, groupB); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		inA := &models.Expense{
			GroupID: groupA.ID, Title: "Hotel", Total: dec("100"), Currency: "USD",
			Payers: []models.Payer{{UserID: "alice", AmountPaid: dec("100")}},
			Splits: []models.Split{{UserID: "bob", AmountOwed: dec("100")}},
		}
		inB := &models.Expense{
			GroupID: groupB.ID, Title: "Flights", Total: dec("400"), Currency: "USD",
			Payers: []models.Payer{{UserID: "alice", AmountPaid: dec("400")}},
			Splits: []models.Split{{UserID: "carol", AmountOwed: dec("400")}},
		}
		if err := store.CreateExpense(ctx, inA); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.CreateExpense(ctx, inB); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpensesByGroup(ctx, groupA.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 1 || expenses[0].ID != inA.ID {
			t.Errorf("group A expenses = %+v, want only %s", expenses, inA.ID)
		}
	})

	t.Run("Settlement defaults to PENDING and can be completed", func(t *testing.T) {
		settlement := &models.Settlement{
			FromUserID: "bob",
			ToUserID:   "alice",
			Amount:     dec("40"),
			Currency:   "USD",
			Note:       "venmo",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		got, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.Status != models.SettlementPending {
			t.Errorf("Status = %s, want PENDING", got.Status)
		}
		if got.Note != "venmo" {
			t.Errorf("Note = %q, want venmo", got.Note)
		}

		if err := store.UpdateSettlementStatus(ctx, settlement.ID, models.SettlementCompleted); err != nil {
			t.Fatalf("UpdateSettlementStatus failed: %v", err)
		}
		got, err = store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.Status != models.SettlementCompleted {
			t.Errorf("Status = %s, want COMPLETED", got.Status)
		}
	})

	t.Run("UpdateSettlementStatus on missing settlement errors", func(t *testing.T) {
		if err := store.UpdateSettlementStatus(ctx, "nope", models.SettlementCompleted); err == nil {
			t.Error("expected error for unknown settlement")
		}
	})

	t.Run("AddGroupMembers ignores duplicates", func(t *testing.T) {
		group := &models.Group{Name: "Roommates", Members: []string{"alice"}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		if err := store.AddGroupMembers(ctx, group.ID, []string{"alice", "bob"}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 2 {
			t.Errorf("Members = %v, want [alice bob]", got.Members)
		}
	})

	t.Run("User round-trip with preferred currency", func(t *testing.T) {
		user := &models.User{Name: "Alice", Email: "alice@example.com", PreferredCurrency: "EUR"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.PreferredCurrency != "EUR" {
			t.Errorf("PreferredCurrency = %q, want EUR", got.PreferredCurrency)
		}
	})
}
