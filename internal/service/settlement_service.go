package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/metrics"
	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/storage"
)

// SettlementService runs the monthly confirmation state machine: members
// confirm their expenses, the settlement locks in once everybody has, and the
// resulting debt moves through pending, paid and confirmed.
type SettlementService struct {
	store    storage.Store
	expenses *ExpenseService
}

// NewSettlementService creates a SettlementService. It reuses the
// ExpenseService so confirmation and summary reads share one memoized view of
// the period.
func NewSettlementService(store storage.Store, expenses *ExpenseService) *SettlementService {
	return &SettlementService{store: store, expenses: expenses}
}

// Confirm registers a member's confirmation for the period. When the last
// active member confirms, the settlement is computed and stored; the stored
// figures are never recomputed afterwards, no matter how many times members
// re-confirm.
func (s *SettlementService) Confirm(ctx context.Context, userID string, month, year int) (*models.PeriodState, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.GroupID == "" {
		return nil, errs.InvalidState("user %s does not belong to a group", userID)
	}

	state, err := s.store.ConfirmMember(ctx, user.GroupID, userID, month, year)
	if err != nil {
		return nil, err
	}
	// The summary mirrors the confirmation map, so a memoized copy is stale
	// the moment a confirmation lands.
	s.expenses.invalidateSummary(ctx, user.GroupID, month, year)
	slog.Info("Member confirmed period",
		"user_id", userID,
		"group_id", user.GroupID,
		"month", month,
		"year", year,
		"confirmations", state.ConfirmationCount(),
	)

	members, err := s.store.ListActiveMembers(ctx, user.GroupID)
	if err != nil {
		return nil, err
	}
	allConfirmed := len(members) > 0
	for _, m := range members {
		if !state.Confirmed(m.ID) {
			allConfirmed = false
			break
		}
	}

	if allConfirmed != state.AllConfirmed {
		if err := s.store.SetAllConfirmed(ctx, state.ID, allConfirmed); err != nil {
			return nil, err
		}
		state.AllConfirmed = allConfirmed
	}

	if allConfirmed && !state.Calculated {
		if err := s.settle(ctx, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// settle derives the period's settlement and stores it. The store-level
// calculated guard keeps a concurrent final confirmation from writing twice.
func (s *SettlementService) settle(ctx context.Context, state *models.PeriodState) error {
	summary, err := s.expenses.Summary(ctx, state.GroupID, state.Month, state.Year)
	if err != nil {
		return err
	}

	applied, err := s.store.RecordSettlement(ctx, state.ID, summary.DebtorID, summary.CreditorID, summary.DebtAmount)
	if err != nil {
		return err
	}
	if !applied {
		// Another confirmation got there first, keep its figures.
		fresh, err := s.store.GetPeriodState(ctx, state.GroupID, state.Month, state.Year)
		if err != nil {
			return err
		}
		*state = *fresh
		return nil
	}

	state.Calculated = true
	state.DebtorID = summary.DebtorID
	state.CreditorID = summary.CreditorID
	state.DebtAmount = summary.DebtAmount
	state.CalculatedAt = time.Now().Unix()

	s.expenses.invalidateSummary(ctx, state.GroupID, state.Month, state.Year)

	metrics.SettlementsComputed.Inc()
	slog.Info("Settlement calculated",
		"group_id", state.GroupID,
		"month", state.Month,
		"year", state.Year,
		"debtor_id", state.DebtorID,
		"creditor_id", state.CreditorID,
		"amount", state.DebtAmount,
	)
	return nil
}

// PeriodState returns the confirmation state row for a period.
func (s *SettlementService) PeriodState(ctx context.Context, groupID string, month, year int) (*models.PeriodState, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.store.GetPeriodState(ctx, groupID, month, year)
}

// PeriodStateForUser resolves the user's group and returns that group's
// period state, so callers holding only an identity can read the period.
func (s *SettlementService) PeriodStateForUser(ctx context.Context, userID string, month, year int) (*models.PeriodState, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.GroupID == "" {
		return nil, errs.InvalidState("user %s does not belong to a group", userID)
	}
	return s.store.GetPeriodState(ctx, user.GroupID, month, year)
}

// CanConfirm reports whether the user may still confirm the period: they have
// not confirmed yet and the period's payment has not been confirmed received.
func (s *SettlementService) CanConfirm(ctx context.Context, userID string, month, year int) (bool, error) {
	if err := validatePeriod(month, year); err != nil {
		return false, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.GroupID == "" {
		return false, nil
	}

	state, err := s.store.GetPeriodState(ctx, user.GroupID, month, year)
	if errs.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if state.PaymentStatus == models.PaymentConfirmed {
		return false, nil
	}
	return !state.Confirmed(userID), nil
}

// PendingConfirmations returns the active members that have not confirmed the
// period yet.
func (s *SettlementService) PendingConfirmations(ctx context.Context, groupID string, month, year int) ([]*models.User, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	members, err := s.store.ListActiveMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	state, err := s.store.GetPeriodState(ctx, groupID, month, year)
	if errs.IsNotFound(err) {
		return members, nil
	}
	if err != nil {
		return nil, err
	}

	var pending []*models.User
	for _, m := range members {
		if !state.Confirmed(m.ID) {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// ConfirmationCount returns how many members have confirmed the period.
func (s *SettlementService) ConfirmationCount(ctx context.Context, groupID string, month, year int) (int, error) {
	state, err := s.store.GetPeriodState(ctx, groupID, month, year)
	if errs.IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.ConfirmationCount(), nil
}

// MarkPaid records that the debtor reported the settlement transfer. Only a
// calculated period can be marked paid, and a period without debt has nothing
// to pay.
func (s *SettlementService) MarkPaid(ctx context.Context, groupID string, month, year int, method string) (*models.PeriodState, error) {
	state, err := s.store.GetPeriodState(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}
	if !state.Calculated {
		return nil, errs.InvalidState("settlement for %d/%d has not been calculated yet", month, year)
	}
	if state.DebtAmount <= 0 {
		return nil, errs.InvalidState("period %d/%d has no debt to pay", month, year)
	}
	if state.PaymentStatus != models.PaymentPending {
		return nil, errs.InvalidState("payment for %d/%d is already %s", month, year, state.PaymentStatus)
	}

	state.PaymentStatus = models.PaymentPaid
	state.PaymentMethod = method
	state.PaidAt = time.Now().Unix()
	if err := s.store.UpdatePeriodPayment(ctx, state.ID, state.PaymentStatus, state.PaymentMethod, state.PaidAt); err != nil {
		return nil, err
	}
	s.expenses.invalidateSummary(ctx, groupID, month, year)

	slog.Info("Settlement marked paid",
		"group_id", groupID,
		"month", month,
		"year", year,
		"method", method,
	)
	return state, nil
}

// ConfirmPaymentReceived records the creditor's acknowledgement, closing the
// period. Only a paid settlement can be confirmed received.
func (s *SettlementService) ConfirmPaymentReceived(ctx context.Context, groupID string, month, year int) (*models.PeriodState, error) {
	state, err := s.store.GetPeriodState(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}
	if state.PaymentStatus != models.PaymentPaid {
		return nil, errs.InvalidState("payment for %d/%d is %s, expected paid", month, year, state.PaymentStatus)
	}

	state.PaymentStatus = models.PaymentConfirmed
	if err := s.store.UpdatePeriodPayment(ctx, state.ID, state.PaymentStatus, state.PaymentMethod, state.PaidAt); err != nil {
		return nil, err
	}
	s.expenses.invalidateSummary(ctx, groupID, month, year)

	slog.Info("Settlement payment confirmed",
		"group_id", groupID,
		"month", month,
		"year", year,
	)
	return state, nil
}
