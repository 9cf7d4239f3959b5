package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/settleup-dev/settleup/internal/models"
)

// handleDashboard serves GET /dashboard[?groupId=].
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := requesterID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	scope := models.GlobalScope()
	if groupID := r.URL.Query().Get("groupId"); groupID != "" {
		scope = models.GroupScope(groupID)
	}

	dashboard, err := s.balances.Dashboard(ctx, userID, scope)
	if err != nil {
		slog.Error("Dashboard failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// handleGroupDebts serves GET /groups/{id}/simplified-debts.
func (s *Server) handleGroupDebts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	groupID := r.PathValue("id")
	transfers, err := s.balances.GroupDebts(ctx, requesterID(r), groupID)
	if err != nil {
		slog.Error("GroupDebts failed", "group_id", groupID, "error", err)
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

// handleFriendBalance serves GET /friend-balance/{friendId}.
func (s *Server) handleFriendBalance(w http.ResponseWriter, r *http.Request) {
	userID := requesterID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	balance, err := s.balances.FriendBalance(ctx, userID, r.PathValue("friendId"))
	if err != nil {
		slog.Error("FriendBalance failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute friend balance")
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

type createUserRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	PreferredCurrency string `json:"preferredCurrency"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		PreferredCurrency: req.PreferredCurrency,
	}
	if err := s.ledger.CreateUser(ctx, user); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	group := &models.Group{Name: req.Name, Members: req.Members}
	if err := s.ledger.CreateGroup(ctx, group); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	group, err := s.ledger.GetGroup(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type createExpenseRequest struct {
	GroupID  string          `json:"groupId"`
	Title    string          `json:"title"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
	Payers   []struct {
		UserID     string          `json:"userId"`
		AmountPaid decimal.Decimal `json:"amountPaid"`
	} `json:"payers"`
	Splits []struct {
		UserID     string          `json:"userId"`
		AmountOwed decimal.Decimal `json:"amountOwed"`
		Shares     int64           `json:"shares"`
	} `json:"splits"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := requesterID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "X-User-ID header required")
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	expense := &models.Expense{
		GroupID:   req.GroupID,
		Title:     req.Title,
		Total:     req.Total,
		Currency:  req.Currency,
		CreatedBy: userID,
	}
	for _, p := range req.Payers {
		expense.Payers = append(expense.Payers, models.Payer{UserID: p.UserID, AmountPaid: p.AmountPaid})
	}
	for _, sp := range req.Splits {
		expense.Splits = append(expense.Splits, models.Split{UserID: sp.UserID, AmountOwed: sp.AmountOwed, Shares: sp.Shares})
	}

	if err := s.ledger.CreateExpense(ctx, expense); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"expenseId": expense.ID})
}

type createSettlementRequest struct {
	GroupID    string          `json:"groupId"`
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Completed  bool            `json:"completed"`
	Note       string          `json:"note"`
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req createSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	settlement := &models.Settlement{
		GroupID:    req.GroupID,
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Note:       req.Note,
	}
	if req.Completed {
		settlement.Status = models.SettlementCompleted
	}

	if err := s.ledger.CreateSettlement(ctx, settlement); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"settlementId": settlement.ID,
		"status":       string(settlement.Status),
	})
}

func (s *Server) handleCompleteSettlement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	settlement, err := s.ledger.CompleteSettlement(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "settlement not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"settlementId": settlement.ID,
		"status":       string(settlement.Status),
	})
}
