package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/models"
)

const planColumns = `id, group_id, debtor_id, creditor_id, total_amount, installment_count,
	frequency_days, installment_amount, paid_count, paid_amount, remaining_amount,
	description, reason, first_due_at, active, completed, completed_at, period_id, created_at`

const installmentColumns = `id, plan_id, number, amount, due_at, state, paid_at,
	payment_method, notes, confirmed, confirmed_at, created_at`

// CreatePlan persists a plan together with its installment schedule in one
// transaction.
func (s *SQLiteStore) CreatePlan(ctx context.Context, plan *models.Plan, installments []*models.Installment) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.CreatedAt == 0 {
		plan.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, group_id, debtor_id, creditor_id, total_amount, installment_count,
		                    frequency_days, installment_amount, paid_count, paid_amount, remaining_amount,
		                    description, reason, first_due_at, active, completed, completed_at, period_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.GroupID, plan.DebtorID, plan.CreditorID, plan.TotalAmount, plan.InstallmentCount,
		plan.FrequencyDays, plan.InstallmentAmount, plan.PaidCount, plan.PaidAmount, plan.RemainingAmount,
		nullable(plan.Description), nullable(plan.Reason), plan.FirstDueAt,
		plan.Active, plan.Completed, nullableInt(plan.CompletedAt), nullable(plan.PeriodID), plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}

	for _, inst := range installments {
		if inst.ID == "" {
			inst.ID = uuid.New().String()
		}
		if inst.CreatedAt == 0 {
			inst.CreatedAt = plan.CreatedAt
		}
		inst.PlanID = plan.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO installments (id, plan_id, number, amount, due_at, state, paid_at,
			                           payment_method, notes, confirmed, confirmed_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inst.ID, inst.PlanID, inst.Number, inst.Amount, inst.DueAt, inst.State,
			nullableInt(inst.PaidAt), nullable(inst.PaymentMethod), nullable(inst.Notes),
			inst.Confirmed, nullableInt(inst.ConfirmedAt), inst.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d: %w", inst.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID.
func (s *SQLiteStore) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM plans WHERE id = ?", planID)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("plan not found: %s", planID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// ListPlansByGroup retrieves a group's active plans, newest first due date
// first.
func (s *SQLiteStore) ListPlansByGroup(ctx context.Context, groupID string) ([]*models.Plan, error) {
	return s.listPlans(ctx,
		"SELECT "+planColumns+" FROM plans WHERE group_id = ? AND active = 1 ORDER BY first_due_at DESC",
		groupID)
}

// ListPlansByUser retrieves the active plans where the user is debtor or
// creditor.
func (s *SQLiteStore) ListPlansByUser(ctx context.Context, userID string) ([]*models.Plan, error) {
	return s.listPlans(ctx,
		`SELECT `+planColumns+` FROM plans
		 WHERE (debtor_id = ? OR creditor_id = ?) AND active = 1
		 ORDER BY completed, first_due_at`,
		userID, userID)
}

func (s *SQLiteStore) listPlans(ctx context.Context, query string, args ...any) ([]*models.Plan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}
	return plans, nil
}

// UpdatePlan rewrites a plan's mutable fields.
func (s *SQLiteStore) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plans SET paid_count = ?, paid_amount = ?, remaining_amount = ?,
		                  active = ?, completed = ?, completed_at = ?
		 WHERE id = ?`,
		plan.PaidCount, plan.PaidAmount, plan.RemainingAmount,
		plan.Active, plan.Completed, nullableInt(plan.CompletedAt), plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return requireRow(res, "plan", plan.ID)
}

// ListInstallments retrieves a plan's installments ordered by number.
func (s *SQLiteStore) ListInstallments(ctx context.Context, planID string) ([]*models.Installment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE plan_id = ? ORDER BY number",
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}
	defer rows.Close()

	var installments []*models.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment: %w", err)
		}
		installments = append(installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installments: %w", err)
	}
	return installments, nil
}

// GetInstallment retrieves an installment by ID.
func (s *SQLiteStore) GetInstallment(ctx context.Context, installmentID string) (*models.Installment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+installmentColumns+" FROM installments WHERE id = ?", installmentID)
	inst, err := scanInstallment(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("installment not found: %s", installmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return inst, nil
}

// UpdateInstallment rewrites an installment's mutable fields.
func (s *SQLiteStore) UpdateInstallment(ctx context.Context, inst *models.Installment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE installments SET state = ?, paid_at = ?, payment_method = ?, notes = ?,
		                         confirmed = ?, confirmed_at = ?
		 WHERE id = ?`,
		inst.State, nullableInt(inst.PaidAt), nullable(inst.PaymentMethod), nullable(inst.Notes),
		inst.Confirmed, nullableInt(inst.ConfirmedAt), inst.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment: %w", err)
	}
	return requireRow(res, "installment", inst.ID)
}

func scanPlan(row scanner) (*models.Plan, error) {
	plan := &models.Plan{}
	var description, reason, periodID sql.NullString
	var completedAt sql.NullInt64

	err := row.Scan(&plan.ID, &plan.GroupID, &plan.DebtorID, &plan.CreditorID,
		&plan.TotalAmount, &plan.InstallmentCount, &plan.FrequencyDays, &plan.InstallmentAmount,
		&plan.PaidCount, &plan.PaidAmount, &plan.RemainingAmount,
		&description, &reason, &plan.FirstDueAt,
		&plan.Active, &plan.Completed, &completedAt, &periodID, &plan.CreatedAt)
	if err != nil {
		return nil, err
	}

	plan.Description = description.String
	plan.Reason = reason.String
	plan.PeriodID = periodID.String
	plan.CompletedAt = completedAt.Int64
	return plan, nil
}

func scanInstallment(row scanner) (*models.Installment, error) {
	inst := &models.Installment{}
	var method, notes sql.NullString
	var paidAt, confirmedAt sql.NullInt64

	err := row.Scan(&inst.ID, &inst.PlanID, &inst.Number, &inst.Amount, &inst.DueAt,
		&inst.State, &paidAt, &method, &notes, &inst.Confirmed, &confirmedAt, &inst.CreatedAt)
	if err != nil {
		return nil, err
	}

	inst.PaymentMethod = method.String
	inst.Notes = notes.String
	inst.PaidAt = paidAt.Int64
	inst.ConfirmedAt = confirmedAt.Int64
	return inst, nil
}
