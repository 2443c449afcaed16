package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/models"
)

const periodColumns = `id, group_id, month, year, confirmations, all_confirmed, calculated,
	debtor_id, creditor_id, debt_amount, payment_status, payment_method, paid_at,
	plan_id, calculated_at, created_at`

// GetPeriodState retrieves a period's confirmation state row.
func (s *SQLiteStore) GetPeriodState(ctx context.Context, groupID string, month, year int) (*models.PeriodState, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+periodColumns+" FROM period_states WHERE group_id = ? AND month = ? AND year = ?",
		groupID, month, year,
	)
	state, err := scanPeriodState(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("period state not found: %s %d/%d", groupID, month, year)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period state: %w", err)
	}
	return state, nil
}

// ConfirmMember sets confirmations[userID] = true for the period, creating
// the row when it does not exist yet. The whole read-modify-write runs inside
// one transaction: SQLite serializes writers, so a concurrent confirmation by
// another member is either fully before or fully after this one, and neither
// flag is lost.
func (s *SQLiteStore) ConfirmMember(ctx context.Context, groupID, userID string, month, year int) (*models.PeriodState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT "+periodColumns+" FROM period_states WHERE group_id = ? AND month = ? AND year = ?",
		groupID, month, year,
	)
	state, err := scanPeriodState(row)
	switch {
	case err == sql.ErrNoRows:
		state = &models.PeriodState{
			ID:            uuid.New().String(),
			GroupID:       groupID,
			Month:         month,
			Year:          year,
			Confirmations: map[string]bool{userID: true},
			PaymentStatus: models.PaymentPending,
			CreatedAt:     time.Now().Unix(),
		}
		raw, merr := json.Marshal(state.Confirmations)
		if merr != nil {
			return nil, fmt.Errorf("failed to encode confirmations: %w", merr)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO period_states (id, group_id, month, year, confirmations, payment_status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			state.ID, groupID, month, year, string(raw), state.PaymentStatus, state.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errs.Wrap(errs.KindConflict, err, "period state already exists: %s %d/%d", groupID, month, year)
			}
			return nil, fmt.Errorf("failed to insert period state: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get period state: %w", err)
	default:
		state.Confirmations[userID] = true
		raw, merr := json.Marshal(state.Confirmations)
		if merr != nil {
			return nil, fmt.Errorf("failed to encode confirmations: %w", merr)
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE period_states SET confirmations = ? WHERE id = ?",
			string(raw), state.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update confirmations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return state, nil
}

// SetAllConfirmed updates the all-confirmed flag.
func (s *SQLiteStore) SetAllConfirmed(ctx context.Context, periodID string, allConfirmed bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE period_states SET all_confirmed = ? WHERE id = ?",
		allConfirmed, periodID,
	)
	if err != nil {
		return fmt.Errorf("failed to update all_confirmed: %w", err)
	}
	return requireRow(res, "period state", periodID)
}

// RecordSettlement stores the settlement figures and marks the period
// calculated. The WHERE calculated = 0 guard makes it idempotent at the
// database level: a second call leaves the stored figures untouched.
func (s *SQLiteStore) RecordSettlement(ctx context.Context, periodID, debtorID, creditorID string, amount float64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE period_states
		 SET debtor_id = ?, creditor_id = ?, debt_amount = ?, calculated = 1, calculated_at = ?
		 WHERE id = ? AND calculated = 0`,
		nullable(debtorID), nullable(creditorID), amount, time.Now().Unix(), periodID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to record settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// UpdatePeriodPayment sets payment status, method and timestamp.
func (s *SQLiteStore) UpdatePeriodPayment(ctx context.Context, periodID string, status models.PaymentStatus, method string, paidAt int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE period_states SET payment_status = ?, payment_method = ?, paid_at = ? WHERE id = ?",
		status, nullable(method), nullableInt(paidAt), periodID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return requireRow(res, "period state", periodID)
}

// LinkPeriodPlan attaches an installment plan to a period row.
func (s *SQLiteStore) LinkPeriodPlan(ctx context.Context, periodID, planID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE period_states SET plan_id = ? WHERE id = ?",
		planID, periodID,
	)
	if err != nil {
		return fmt.Errorf("failed to link plan: %w", err)
	}
	return requireRow(res, "period state", periodID)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPeriodState(row scanner) (*models.PeriodState, error) {
	state := &models.PeriodState{}
	var confirmations string
	var debtorID, creditorID, method, planID sql.NullString
	var paidAt, calculatedAt sql.NullInt64

	err := row.Scan(&state.ID, &state.GroupID, &state.Month, &state.Year,
		&confirmations, &state.AllConfirmed, &state.Calculated,
		&debtorID, &creditorID, &state.DebtAmount,
		&state.PaymentStatus, &method, &paidAt,
		&planID, &calculatedAt, &state.CreatedAt)
	if err != nil {
		return nil, err
	}

	state.Confirmations = make(map[string]bool)
	if err := json.Unmarshal([]byte(confirmations), &state.Confirmations); err != nil {
		return nil, fmt.Errorf("failed to decode confirmations: %w", err)
	}
	state.DebtorID = debtorID.String
	state.CreditorID = creditorID.String
	state.PaymentMethod = method.String
	state.PlanID = planID.String
	state.PaidAt = paidAt.Int64
	state.CalculatedAt = calculatedAt.Int64
	return state, nil
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return errs.NotFound("%s not found: %s", entity, id)
	}
	return nil
}

func nullableInt(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
