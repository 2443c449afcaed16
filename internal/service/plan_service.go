package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mluna/hogarledger/internal/calculator"
	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/metrics"
	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/storage"
)

const (
	minInstallments  = 2
	maxInstallments  = 12
	minFrequencyDays = 1
	maxFrequencyDays = 365

	// paidTolerance covers float drift when comparing the accumulated paid
	// amount against the plan total.
	paidTolerance = 0.005
)

// PlanService manages installment plans: creating a schedule for an agreed
// debt and moving its installments through pay, confirm, complete and cancel.
type PlanService struct {
	store storage.Store
}

// NewPlanService creates a PlanService with the given storage backend.
func NewPlanService(store storage.Store) *PlanService {
	return &PlanService{store: store}
}

// CreatePlanRequest carries the parameters for a new installment plan.
type CreatePlanRequest struct {
	GroupID     string
	DebtorID    string
	CreditorID  string
	TotalAmount float64

	// InstallmentCount must be between 2 and 12, FrequencyDays between 1
	// and 365.
	InstallmentCount int
	FrequencyDays    int

	// FirstDueAt is the due date of the first installment. Zero means one
	// frequency interval from now.
	FirstDueAt time.Time

	Description string
	Reason      string

	// PeriodID optionally links the plan to the monthly settlement it pays
	// off.
	PeriodID string
}

// CreatePlan validates the request, generates the installment schedule and
// persists the plan.
func (s *PlanService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*models.Plan, error) {
	if req.TotalAmount <= 0 {
		return nil, errs.InvalidInput("total amount must be positive, got %.2f", req.TotalAmount)
	}
	if req.DebtorID == req.CreditorID {
		return nil, errs.InvalidInput("debtor and creditor must be different users")
	}
	if req.InstallmentCount < minInstallments || req.InstallmentCount > maxInstallments {
		return nil, errs.InvalidInput("installment count must be between %d and %d, got %d",
			minInstallments, maxInstallments, req.InstallmentCount)
	}
	if req.FrequencyDays < minFrequencyDays || req.FrequencyDays > maxFrequencyDays {
		return nil, errs.InvalidInput("frequency must be between %d and %d days, got %d",
			minFrequencyDays, maxFrequencyDays, req.FrequencyDays)
	}

	if _, err := s.store.GetGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}
	members, err := s.store.ListActiveMembers(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !memberOf(members, req.DebtorID) || !memberOf(members, req.CreditorID) {
		return nil, errs.InvalidInput("debtor and creditor must be active members of the group")
	}

	firstDue := req.FirstDueAt
	if firstDue.IsZero() {
		firstDue = time.Now().AddDate(0, 0, req.FrequencyDays)
	}

	total := calculator.RoundTo2(req.TotalAmount)
	schedule := calculator.BuildSchedule(total, req.InstallmentCount, firstDue, req.FrequencyDays)

	plan := &models.Plan{
		GroupID:           req.GroupID,
		DebtorID:          req.DebtorID,
		CreditorID:        req.CreditorID,
		TotalAmount:       total,
		InstallmentCount:  req.InstallmentCount,
		FrequencyDays:     req.FrequencyDays,
		InstallmentAmount: calculator.RoundTo2(total / float64(req.InstallmentCount)),
		RemainingAmount:   total,
		Description:       req.Description,
		Reason:            req.Reason,
		FirstDueAt:        firstDue.Unix(),
		Active:            true,
		PeriodID:          req.PeriodID,
	}

	installments := make([]*models.Installment, len(schedule))
	for i, entry := range schedule {
		installments[i] = &models.Installment{
			Number: entry.Number,
			Amount: entry.Amount,
			DueAt:  entry.DueAt,
			State:  models.InstallmentPending,
		}
	}

	if err := s.store.CreatePlan(ctx, plan, installments); err != nil {
		return nil, err
	}

	if req.PeriodID != "" {
		if err := s.store.LinkPeriodPlan(ctx, req.PeriodID, plan.ID); err != nil {
			return nil, err
		}
	}

	metrics.PlansCreated.Inc()
	slog.Info("Installment plan created",
		"plan_id", plan.ID,
		"group_id", plan.GroupID,
		"debtor_id", plan.DebtorID,
		"creditor_id", plan.CreditorID,
		"total", plan.TotalAmount,
		"installments", plan.InstallmentCount,
	)
	return plan, nil
}

// Pay marks a pending installment as paid and rolls the payment into the
// plan's progress counters. The plan completes automatically once the paid
// amount covers the total.
func (s *PlanService) Pay(ctx context.Context, installmentID, method, notes string) (*models.Installment, error) {
	inst, err := s.store.GetInstallment(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.State != models.InstallmentPending {
		return nil, errs.InvalidState("installment %d is %s, only pending installments can be paid",
			inst.Number, inst.State)
	}

	inst.State = models.InstallmentPaid
	inst.PaidAt = time.Now().Unix()
	inst.PaymentMethod = method
	inst.Notes = notes
	if err := s.store.UpdateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	plan, err := s.store.GetPlan(ctx, inst.PlanID)
	if err != nil {
		return nil, err
	}
	plan.PaidCount++
	plan.PaidAmount = calculator.RoundTo2(plan.PaidAmount + inst.Amount)
	plan.RemainingAmount = calculator.RoundTo2(plan.TotalAmount - plan.PaidAmount)
	if plan.PaidAmount >= plan.TotalAmount-paidTolerance {
		plan.Completed = true
		plan.CompletedAt = time.Now().Unix()
	}
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	metrics.InstallmentsPaid.Inc()
	slog.Info("Installment paid",
		"plan_id", plan.ID,
		"number", inst.Number,
		"amount", inst.Amount,
		"method", method,
		"plan_completed", plan.Completed,
	)
	return inst, nil
}

// ConfirmInstallment records the creditor's acknowledgement of a paid
// installment. Only the plan's creditor can confirm.
func (s *PlanService) ConfirmInstallment(ctx context.Context, installmentID, userID string) (*models.Installment, error) {
	inst, err := s.store.GetInstallment(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.State != models.InstallmentPaid {
		return nil, errs.InvalidState("installment %d is %s, only paid installments can be confirmed",
			inst.Number, inst.State)
	}

	plan, err := s.store.GetPlan(ctx, inst.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.CreditorID != userID {
		return nil, errs.InvalidState("only the plan's creditor can confirm an installment")
	}

	inst.State = models.InstallmentConfirmed
	inst.Confirmed = true
	inst.ConfirmedAt = time.Now().Unix()
	if err := s.store.UpdateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	slog.Info("Installment confirmed",
		"plan_id", plan.ID,
		"number", inst.Number,
	)
	return inst, nil
}

// Complete closes out a plan early: every remaining pending installment is
// force-transitioned to confirmed and the plan is marked completed. Fails on
// plans that already completed.
func (s *PlanService) Complete(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Completed {
		return nil, errs.InvalidState("plan %s is already completed", planID)
	}

	installments, err := s.store.ListInstallments(ctx, planID)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	for _, inst := range installments {
		if inst.State != models.InstallmentPending {
			continue
		}
		inst.State = models.InstallmentConfirmed
		inst.Confirmed = true
		inst.PaidAt = now
		inst.ConfirmedAt = now
		if err := s.store.UpdateInstallment(ctx, inst); err != nil {
			return nil, err
		}
	}

	plan.Completed = true
	plan.CompletedAt = now
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	slog.Info("Plan completed manually", "plan_id", planID)
	return plan, nil
}

// Cancel deactivates a plan: pending installments move to cancelled, paid and
// confirmed ones keep their history. Fails on plans that already completed.
func (s *PlanService) Cancel(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Completed {
		return nil, errs.InvalidState("plan %s is completed and cannot be cancelled", planID)
	}

	installments, err := s.store.ListInstallments(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, inst := range installments {
		if inst.State != models.InstallmentPending {
			continue
		}
		inst.State = models.InstallmentCancelled
		if err := s.store.UpdateInstallment(ctx, inst); err != nil {
			return nil, err
		}
	}

	plan.Active = false
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}

	slog.Info("Plan cancelled", "plan_id", planID)
	return plan, nil
}

// PlanOverview is a plan annotated for display from one user's perspective.
type PlanOverview struct {
	*models.Plan

	DebtorName   string `json:"debtor_name"`
	CreditorName string `json:"creditor_name"`

	// IsDebtor is true when the viewing user pays the plan.
	IsDebtor bool `json:"is_debtor"`

	// NextDueAt is the due date of the earliest unresolved installment, 0
	// when none remain.
	NextDueAt int64 `json:"next_due_at,omitempty"`

	// PercentComplete is PaidAmount over TotalAmount, 0-100.
	PercentComplete float64 `json:"percent_complete"`
}

// PlanDetail is a plan with its full installment schedule.
type PlanDetail struct {
	*models.Plan

	DebtorName      string            `json:"debtor_name"`
	CreditorName    string            `json:"creditor_name"`
	PercentComplete float64           `json:"percent_complete"`
	Installments    []InstallmentView `json:"installments"`
}

// InstallmentView is an installment annotated with display-only scheduling
// state.
type InstallmentView struct {
	*models.Installment

	// DaysRemaining until the due date, negative when past due.
	DaysRemaining int `json:"days_remaining"`

	// Overdue means past due and still pending.
	Overdue bool `json:"overdue"`
}

// PlansByUser returns the user's active plans annotated for display.
func (s *PlanService) PlansByUser(ctx context.Context, userID string) ([]*PlanOverview, error) {
	plans, err := s.store.ListPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildOverviews(ctx, plans, userID)
}

// PlansByGroup returns a group's active plans annotated for display.
func (s *PlanService) PlansByGroup(ctx context.Context, groupID string) ([]*PlanOverview, error) {
	plans, err := s.store.ListPlansByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.buildOverviews(ctx, plans, "")
}

func (s *PlanService) buildOverviews(ctx context.Context, plans []*models.Plan, viewerID string) ([]*PlanOverview, error) {
	names := make(map[string]string)
	overviews := make([]*PlanOverview, 0, len(plans))
	for _, plan := range plans {
		debtorName, err := s.displayName(ctx, names, plan.DebtorID)
		if err != nil {
			return nil, err
		}
		creditorName, err := s.displayName(ctx, names, plan.CreditorID)
		if err != nil {
			return nil, err
		}

		installments, err := s.store.ListInstallments(ctx, plan.ID)
		if err != nil {
			return nil, err
		}

		overviews = append(overviews, &PlanOverview{
			Plan:            plan,
			DebtorName:      debtorName,
			CreditorName:    creditorName,
			IsDebtor:        viewerID != "" && plan.DebtorID == viewerID,
			NextDueAt:       nextDue(installments),
			PercentComplete: percentComplete(plan),
		})
	}
	return overviews, nil
}

// Detail returns a plan with its full schedule annotated for display.
func (s *PlanService) Detail(ctx context.Context, planID string) (*PlanDetail, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	installments, err := s.store.ListInstallments(ctx, planID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	debtorName, err := s.displayName(ctx, names, plan.DebtorID)
	if err != nil {
		return nil, err
	}
	creditorName, err := s.displayName(ctx, names, plan.CreditorID)
	if err != nil {
		return nil, err
	}

	detail := &PlanDetail{
		Plan:            plan,
		DebtorName:      debtorName,
		CreditorName:    creditorName,
		PercentComplete: percentComplete(plan),
	}
	now := time.Now().Unix()
	for _, inst := range installments {
		detail.Installments = append(detail.Installments, newInstallmentView(inst, now))
	}
	return detail, nil
}

// PendingInstallment is an unresolved installment across a user's plans,
// annotated with what the user has to do about it.
type PendingInstallment struct {
	InstallmentView

	PlanID       string `json:"plan_id"`
	Description  string `json:"description,omitempty"`
	DebtorName   string `json:"debtor_name"`
	CreditorName string `json:"creditor_name"`
	IsDebtor     bool   `json:"is_debtor"`

	// RequiresAction is true when it is this user's move: the debtor has to
	// pay a pending installment, or the creditor has to confirm a paid one.
	RequiresAction bool `json:"requires_action"`
}

// PendingForUser returns the user's unresolved installments across all their
// active plans, ordered by due date.
func (s *PlanService) PendingForUser(ctx context.Context, userID string) ([]*PendingInstallment, error) {
	plans, err := s.store.ListPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	now := time.Now().Unix()
	var pending []*PendingInstallment
	for _, plan := range plans {
		debtorName, err := s.displayName(ctx, names, plan.DebtorID)
		if err != nil {
			return nil, err
		}
		creditorName, err := s.displayName(ctx, names, plan.CreditorID)
		if err != nil {
			return nil, err
		}
		isDebtor := plan.DebtorID == userID

		installments, err := s.store.ListInstallments(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		for _, inst := range installments {
			if inst.State == models.InstallmentConfirmed || inst.State == models.InstallmentCancelled {
				continue
			}
			pending = append(pending, &PendingInstallment{
				InstallmentView: newInstallmentView(inst, now),
				PlanID:          plan.ID,
				Description:     plan.Description,
				DebtorName:      debtorName,
				CreditorName:    creditorName,
				IsDebtor:        isDebtor,
				RequiresAction: (isDebtor && inst.State == models.InstallmentPending) ||
					(!isDebtor && inst.State == models.InstallmentPaid),
			})
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].DueAt < pending[j].DueAt
	})
	return pending, nil
}

func (s *PlanService) displayName(ctx context.Context, cache map[string]string, userID string) (string, error) {
	if name, ok := cache[userID]; ok {
		return name, nil
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	cache[userID] = user.DisplayName()
	return cache[userID], nil
}

func newInstallmentView(inst *models.Installment, nowUnix int64) InstallmentView {
	return InstallmentView{
		Installment:   inst,
		DaysRemaining: int((inst.DueAt - nowUnix) / 86400),
		Overdue:       inst.OverdueAt(nowUnix),
	}
}

func nextDue(installments []*models.Installment) int64 {
	for _, inst := range installments {
		if inst.State == models.InstallmentPending || inst.State == models.InstallmentPaid {
			return inst.DueAt
		}
	}
	return 0
}

func percentComplete(plan *models.Plan) float64 {
	if plan.TotalAmount <= 0 {
		return 0
	}
	return calculator.RoundTo2(plan.PaidAmount / plan.TotalAmount * 100)
}

func memberOf(members []*models.User, userID string) bool {
	for _, m := range members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
