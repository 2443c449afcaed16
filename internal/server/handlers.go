package server

import (
	"net/http"
	"time"

	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/service"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.members.CreateGroup(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.members.GetGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.members.ListMembers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Alias   string `json:"alias"`
		GroupID string `json:"group_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.members.CreateUser(r.Context(), req.Name, req.Alias, req.GroupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.members.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		GroupID     string  `json:"group_id"`
		Amount      float64 `json:"amount"`
		CategoryID  string  `json:"category_id"`
		Description string  `json:"description"`
		Personal    bool    `json:"personal"`
		StoreName   string  `json:"store_name"`
		Notes       string  `json:"notes"`
		OccurredAt  int64   `json:"occurred_at"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense := &models.Expense{
		UserID:      userID,
		GroupID:     req.GroupID,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Personal:    req.Personal,
		StoreName:   req.StoreName,
		Notes:       req.Notes,
		OccurredAt:  req.OccurredAt,
	}
	if err := s.expenses.Record(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	expenses, err := s.expenses.List(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.expenses.Summary(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	state, err := s.settlements.Confirm(r.Context(), userID, req.Month, req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCanConfirm(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, err := s.settlements.CanConfirm(r.Context(), userID, month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"can_confirm": ok})
}

func (s *Server) handlePeriodState(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := s.settlements.PeriodState(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePeriodStateForUser(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := s.settlements.PeriodStateForUser(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleConfirmationCount(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	count, err := s.settlements.ConfirmationCount(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handlePendingConfirmations(w http.ResponseWriter, r *http.Request) {
	month, year, err := periodQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pending, err := s.settlements.PendingConfirmations(r.Context(), r.PathValue("id"), month, year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month  int    `json:"month"`
		Year   int    `json:"year"`
		Method string `json:"method"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	state, err := s.settlements.MarkPaid(r.Context(), r.PathValue("id"), req.Month, req.Year, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	state, err := s.settlements.ConfirmPaymentReceived(r.Context(), r.PathValue("id"), req.Month, req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID          string  `json:"group_id"`
		DebtorID         string  `json:"debtor_id"`
		CreditorID       string  `json:"creditor_id"`
		TotalAmount      float64 `json:"total_amount"`
		InstallmentCount int     `json:"installment_count"`
		FrequencyDays    int     `json:"frequency_days"`
		FirstDueAt       int64   `json:"first_due_at"`
		Description      string  `json:"description"`
		Reason           string  `json:"reason"`
		PeriodID         string  `json:"period_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	createReq := service.CreatePlanRequest{
		GroupID:          req.GroupID,
		DebtorID:         req.DebtorID,
		CreditorID:       req.CreditorID,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		FrequencyDays:    req.FrequencyDays,
		Description:      req.Description,
		Reason:           req.Reason,
		PeriodID:         req.PeriodID,
	}
	if req.FirstDueAt != 0 {
		createReq.FirstDueAt = time.Unix(req.FirstDueAt, 0)
	}

	plan, err := s.plans.CreatePlan(r.Context(), createReq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handlePlanDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.plans.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleCompletePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCancelPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handlePlansByGroup(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.PlansByGroup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePlansByUser(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.PlansByUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePendingInstallments(w http.ResponseWriter, r *http.Request) {
	pending, err := s.plans.PendingForUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handlePayInstallment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		Notes  string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	inst, err := s.plans.Pay(r.Context(), r.PathValue("id"), req.Method, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (s *Server) handleConfirmInstallment(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, err)
		return
	}

	inst, err := s.plans.ConfirmInstallment(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}
