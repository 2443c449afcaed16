// Package server exposes the ledger services over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/mluna/hogarledger/internal/metrics"
	"github.com/mluna/hogarledger/internal/service"
)

// Server wires the ledger services to HTTP routes.
type Server struct {
	members     *service.MemberService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	plans       *service.PlanService
}

// New creates a Server over the given services.
func New(members *service.MemberService, expenses *service.ExpenseService,
	settlements *service.SettlementService, plans *service.PlanService) *Server {
	return &Server{
		members:     members,
		expenses:    expenses,
		settlements: settlements,
		plans:       plans,
	}
}

// Handler builds the route table with the logging and CORS middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	mux.HandleFunc("GET /api/groups/{id}/members", s.handleListMembers)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)

	mux.HandleFunc("POST /api/expenses", s.handleRecordExpense)
	mux.HandleFunc("GET /api/groups/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/groups/{id}/summary", s.handleSummary)

	mux.HandleFunc("POST /api/periods/confirm", s.handleConfirm)
	mux.HandleFunc("GET /api/periods/can-confirm", s.handleCanConfirm)
	mux.HandleFunc("GET /api/groups/{id}/period", s.handlePeriodState)
	mux.HandleFunc("GET /api/users/{id}/period", s.handlePeriodStateForUser)
	mux.HandleFunc("GET /api/groups/{id}/pending-confirmations", s.handlePendingConfirmations)
	mux.HandleFunc("GET /api/groups/{id}/confirmation-count", s.handleConfirmationCount)
	mux.HandleFunc("POST /api/groups/{id}/period/paid", s.handleMarkPaid)
	mux.HandleFunc("POST /api/groups/{id}/period/confirm-payment", s.handleConfirmPayment)

	mux.HandleFunc("POST /api/plans", s.handleCreatePlan)
	mux.HandleFunc("GET /api/plans/{id}", s.handlePlanDetail)
	mux.HandleFunc("POST /api/plans/{id}/complete", s.handleCompletePlan)
	mux.HandleFunc("POST /api/plans/{id}/cancel", s.handleCancelPlan)
	mux.HandleFunc("GET /api/groups/{id}/plans", s.handlePlansByGroup)
	mux.HandleFunc("GET /api/users/{id}/plans", s.handlePlansByUser)
	mux.HandleFunc("GET /api/users/{id}/pending-installments", s.handlePendingInstallments)
	mux.HandleFunc("POST /api/installments/{id}/pay", s.handlePayInstallment)
	mux.HandleFunc("POST /api/installments/{id}/confirm", s.handleConfirmInstallment)

	return loggingMiddleware(corsMiddleware(mux))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
