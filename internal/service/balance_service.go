// Package service orchestrates ledger storage, currency conversion and the
// balance calculator into the operations the HTTP layer exposes.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/calculator"
	"github.com/settleup-dev/settleup/internal/models"
	"github.com/settleup-dev/settleup/internal/storage"
)

// RateSource converts amounts between currencies. Implementations never
// fail; a missing rate degrades to the identity factor.
type RateSource interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
}

// BalanceService computes dashboards, group debt simplifications and
// pairwise friend balances. All results are derived fresh per call from
// the ledger records; nothing here is persisted.
type BalanceService struct {
	store           storage.Store
	rates           RateSource
	defaultCurrency string
}

// NewBalanceService creates a BalanceService with the given collaborators.
func NewBalanceService(store storage.Store, rates RateSource, defaultCurrency string) *BalanceService {
	return &BalanceService{store: store, rates: rates, defaultCurrency: defaultCurrency}
}

// referenceCurrency resolves the currency balances are reported in for a
// user: their stored preference, or the server default.
func (s *BalanceService) referenceCurrency(ctx context.Context, userID string) string {
	if userID == "" {
		return s.defaultCurrency
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil || user.PreferredCurrency == "" {
		return s.defaultCurrency
	}
	return user.PreferredCurrency
}

// loadScope fetches the expenses and settlements a scope covers.
func (s *BalanceService) loadScope(ctx context.Context, userID string, scope models.Scope) ([]models.Expense, []models.Settlement, error) {
	if scope.IsGlobal() {
		expenses, err := s.store.ListExpensesByUser(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load expenses: %w", err)
		}
		settlements, err := s.store.ListSettlementsByUser(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load settlements: %w", err)
		}
		return expenses, settlements, nil
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, scope.GroupID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load group expenses: %w", err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, scope.GroupID())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load group settlements: %w", err)
	}
	return expenses, settlements, nil
}

// NetBalances aggregates a scope's ledger into per-user net positions in
// the requesting user's reference currency.
func (s *BalanceService) NetBalances(ctx context.Context, userID string, scope models.Scope) (map[string]decimal.Decimal, string, error) {
	refCurrency := s.referenceCurrency(ctx, userID)

	expenses, settlements, err := s.loadScope(ctx, userID, scope)
	if err != nil {
		return nil, "", err
	}

	convert := func(ctx context.Context, amount decimal.Decimal, currency string) decimal.Decimal {
		return s.rates.Convert(ctx, amount, currency, refCurrency)
	}
	balances := calculator.NetBalances(ctx, expenses, settlements, convert)

	// A closed scope nets to zero. A violation means corrupt upstream
	// data, not a calculator bug; surface it without failing the request.
	if !scope.IsGlobal() {
		sum := calculator.SumBalances(balances)
		tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(int64(len(balances) + 1)))
		if sum.Abs().GreaterThan(tolerance) {
			slog.Warn("group balances do not net to zero",
				"group_id", scope.GroupID(),
				"residual", sum.String(),
			)
		}
	}

	return balances, refCurrency, nil
}

// Dashboard computes one user's position for a scope: total owed, total
// owed-to, and the user's edges of the simplified transfer set. The whole
// population is netted, but only the requester's edges are surfaced.
func (s *BalanceService) Dashboard(ctx context.Context, userID string, scope models.Scope) (*models.Dashboard, error) {
	balances, refCurrency, err := s.NetBalances(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	transfers := calculator.Simplify(balances)

	dashboard := &models.Dashboard{
		YouOwe:       decimal.Zero,
		YouAreOwed:   decimal.Zero,
		Currency:     refCurrency,
		Transactions: []models.Transfer{},
	}
	for _, t := range transfers {
		switch userID {
		case t.From:
			dashboard.YouOwe = dashboard.YouOwe.Add(t.Amount)
			dashboard.Transactions = append(dashboard.Transactions, t)
		case t.To:
			dashboard.YouAreOwed = dashboard.YouAreOwed.Add(t.Amount)
			dashboard.Transactions = append(dashboard.Transactions, t)
		}
	}

	slog.Debug("dashboard computed",
		"user_id", userID,
		"group_id", scope.GroupID(),
		"balances", len(balances),
		"transactions", len(dashboard.Transactions),
	)
	return dashboard, nil
}

// GroupDebts returns the full simplified transfer set for a group, in the
// requesting user's reference currency.
func (s *BalanceService) GroupDebts(ctx context.Context, requesterID, groupID string) ([]models.Transfer, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	balances, _, err := s.NetBalances(ctx, requesterID, models.GroupScope(groupID))
	if err != nil {
		return nil, err
	}

	transfers := calculator.Simplify(balances)
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return transfers, nil
}
