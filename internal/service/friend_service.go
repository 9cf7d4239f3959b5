package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

// FriendBalance computes the pairwise position between a user and a
// friend by direct pairwise contribution: only expenses and settlements
// involving both users count, and within each expense only the money
// flowing between the two. Positive amount means the friend owes the user.
func (s *BalanceService) FriendBalance(ctx context.Context, userID, friendID string) (*models.FriendBalance, error) {
	refCurrency := s.referenceCurrency(ctx, userID)

	expenses, err := s.store.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance := decimal.Zero
	history := []models.FriendLedgerEntry{}

	for _, e := range expenses {
		if !e.Involves(friendID) {
			continue
		}
		effect := pairwiseEffect(&e, userID, friendID)
		if effect.IsZero() {
			continue
		}
		effect = s.rates.Convert(ctx, effect, e.Currency, refCurrency)
		balance = balance.Add(effect)
		history = append(history, models.FriendLedgerEntry{
			Kind:      "expense",
			ID:        e.ID,
			Title:     e.Title,
			Effect:    effect.Round(2),
			CreatedAt: e.CreatedAt,
		})
	}

	for _, st := range settlements {
		if st.Status != models.SettlementCompleted {
			continue
		}
		var effect decimal.Decimal
		switch {
		case st.FromUserID == friendID && st.ToUserID == userID:
			// Friend paid the user, reducing what the friend owes.
			effect = st.Amount.Neg()
		case st.FromUserID == userID && st.ToUserID == friendID:
			effect = st.Amount
		default:
			continue
		}
		effect = s.rates.Convert(ctx, effect, st.Currency, refCurrency)
		balance = balance.Add(effect)
		history = append(history, models.FriendLedgerEntry{
			Kind:      "settlement",
			ID:        st.ID,
			Effect:    effect.Round(2),
			CreatedAt: st.CreatedAt,
		})
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].CreatedAt > history[j].CreatedAt
	})

	return &models.FriendBalance{
		FriendID: friendID,
		Amount:   balance.Round(2),
		Currency: refCurrency,
		History:  history,
	}, nil
}

// pairwiseEffect is the signed change an expense makes to "friend owes
// user", in the expense's currency. A participant's owed share is owed to
// the payers in proportion to what each payer put in, so the flow between
// the two users is:
//
//	friendOwed * userPaid/totalPaid - userOwed * friendPaid/totalPaid
func pairwiseEffect(e *models.Expense, userID, friendID string) decimal.Decimal {
	totalPaid := decimal.Zero
	userPaid := decimal.Zero
	friendPaid := decimal.Zero
	for _, p := range e.Payers {
		totalPaid = totalPaid.Add(p.AmountPaid)
		switch p.UserID {
		case userID:
			userPaid = userPaid.Add(p.AmountPaid)
		case friendID:
			friendPaid = friendPaid.Add(p.AmountPaid)
		}
	}
	if totalPaid.IsZero() {
		return decimal.Zero
	}

	userOwed := decimal.Zero
	friendOwed := decimal.Zero
	for _, sp := range e.Splits {
		switch sp.UserID {
		case userID:
			userOwed = userOwed.Add(sp.AmountOwed)
		case friendID:
			friendOwed = friendOwed.Add(sp.AmountOwed)
		}
	}

	toUser := friendOwed.Mul(userPaid).Div(totalPaid)
	toFriend := userOwed.Mul(friendPaid).Div(totalPaid)
	return toUser.Sub(toFriend)
}
