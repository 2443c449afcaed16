// Package service implements the ledger operations on top of storage: expense
// recording and aggregation, the period confirmation state machine, and
// installment plans.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mluna/hogarledger/internal/cache"
	"github.com/mluna/hogarledger/internal/calculator"
	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/metrics"
	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/storage"
)

// summaryTTL bounds how long a memoized summary may serve reads. The cache
// key embeds the period's last expense timestamp, so a write always moves
// readers to a fresh key; the TTL only caps how long superseded entries and
// stale confirmation snapshots survive.
const summaryTTL = 15 * time.Minute

// ExpenseService records expenses and derives monthly summaries.
type ExpenseService struct {
	store     storage.Store
	summaries *cache.TTLCache[*models.MonthlySummary]
}

// NewExpenseService creates an ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{
		store:     store,
		summaries: cache.NewTTLCache[*models.MonthlySummary](summaryTTL),
	}
}

// Record validates and persists an expense, stamping its period from the
// occurrence timestamp. Expenses are immutable once recorded.
func (s *ExpenseService) Record(ctx context.Context, expense *models.Expense) error {
	if expense.Amount <= 0 {
		return errs.InvalidInput("amount must be positive, got %.2f", expense.Amount)
	}
	if strings.TrimSpace(expense.Description) == "" {
		return errs.InvalidInput("description cannot be empty")
	}
	if expense.GroupID == "" || expense.UserID == "" {
		return errs.InvalidInput("group and user are required")
	}

	if expense.OccurredAt == 0 {
		expense.OccurredAt = time.Now().Unix()
	}
	occurred := time.Unix(expense.OccurredAt, 0)
	expense.Month = int(occurred.Month())
	expense.Year = occurred.Year()
	expense.Amount = calculator.RoundTo2(expense.Amount)

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return err
	}

	// A write must never be followed by a stale read: drop any summary
	// memoized before this expense existed.
	s.invalidateSummary(ctx, expense.GroupID, expense.Month, expense.Year)

	metrics.ExpensesRecorded.Inc()
	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"user_id", expense.UserID,
		"amount", expense.Amount,
		"personal", expense.Personal,
	)
	return nil
}

// List returns a period's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, groupID string, month, year int) ([]*models.Expense, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, groupID, month, year)
}

// Summary aggregates a period into per-member figures and the settlement
// proposal. The result is memoized keyed by the period's last expense
// timestamp.
func (s *ExpenseService) Summary(ctx context.Context, groupID string, month, year int) (*models.MonthlySummary, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	lastChange, err := s.store.LastExpenseChange(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	key := summaryKey(groupID, month, year, lastChange)
	if summary, ok := s.summaries.Get(key); ok {
		metrics.SummaryCacheHits.Inc()
		return summary, nil
	}
	metrics.SummaryCacheMisses.Inc()

	summary, err := s.computeSummary(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	s.summaries.Set(key, summary)
	return summary, nil
}

// invalidateSummary drops the memoized summary for a period regardless of
// which last-change timestamp it was keyed under.
func (s *ExpenseService) invalidateSummary(ctx context.Context, groupID string, month, year int) {
	lastChange, err := s.store.LastExpenseChange(ctx, groupID, month, year)
	if err != nil {
		slog.Warn("Failed to resolve summary cache key", "group_id", groupID, "error", err)
		return
	}
	// Drop the pre-write key (no expenses had lastChange 0) and the
	// current one.
	s.summaries.Delete(summaryKey(groupID, month, year, 0))
	s.summaries.Delete(summaryKey(groupID, month, year, lastChange))
}

func summaryKey(groupID string, month, year int, lastChange int64) string {
	return fmt.Sprintf("summary_%s_%d_%d_%d", groupID, month, year, lastChange)
}

func (s *ExpenseService) computeSummary(ctx context.Context, groupID string, month, year int) (*models.MonthlySummary, error) {
	members, err := s.store.ListActiveMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	amounts := make([]calculator.ExpenseAmount, len(expenses))
	for i, e := range expenses {
		amounts[i] = calculator.ExpenseAmount{UserID: e.UserID, Amount: e.Amount, Personal: e.Personal}
	}

	agg := calculator.Summarize(amounts, memberIDs)
	settlement := calculator.Settle(agg.ShareableByUser, agg.PerPersonShare)

	summary := &models.MonthlySummary{
		GroupID:        groupID,
		Month:          month,
		Year:           year,
		TotalSpent:     agg.TotalSpent,
		TotalPersonal:  agg.TotalPersonal,
		TotalShareable: agg.TotalShareable,
		PerPersonShare: agg.PerPersonShare,
		DebtorID:       settlement.DebtorID,
		CreditorID:     settlement.CreditorID,
		DebtAmount:     settlement.Amount,
		Confirmations:  make(map[string]bool),
		PaymentStatus:  models.PaymentPending,
	}

	// Confirmation state, when the period row exists already.
	state, err := s.store.GetPeriodState(ctx, groupID, month, year)
	switch {
	case errs.IsNotFound(err):
		// Nobody has confirmed yet.
	case err != nil:
		return nil, err
	default:
		summary.Confirmations = state.Confirmations
		summary.AllConfirmed = state.AllConfirmed
		summary.Calculated = state.Calculated
		summary.PaymentStatus = state.PaymentStatus
		summary.PlanID = state.PlanID
		// Once calculated, the stored settlement is authoritative.
		if state.Calculated {
			summary.DebtorID = state.DebtorID
			summary.CreditorID = state.CreditorID
			summary.DebtAmount = state.DebtAmount
		}
	}

	for _, m := range members {
		summary.Members = append(summary.Members, models.MemberFigures{
			UserID:      m.ID,
			DisplayName: m.DisplayName(),
			Total:       agg.TotalByUser[m.ID],
			Personal:    agg.PersonalByUser[m.ID],
			Shareable:   agg.ShareableByUser[m.ID],
			Balance:     agg.ShareableByUser[m.ID] - agg.PerPersonShare,
			Confirmed:   summary.Confirmations[m.ID],
		})
	}

	summary.Explanation = buildExplanation(summary)
	return summary, nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return errs.InvalidInput("month must be between 1 and 12, got %d", month)
	}
	if year < 2000 || year > 2200 {
		return errs.InvalidInput("year out of range: %d", year)
	}
	return nil
}
