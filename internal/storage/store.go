// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mluna/hogarledger/internal/models"
)

// Store defines the persistence operations the ledger services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, ...)
// without changing the service layer.
//
// NotFound conditions are reported with errs.KindNotFound; unique-key
// violations with errs.KindConflict.
type Store interface {
	// Groups and members.

	// CreateGroup persists a new group, populating ID and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// CreateUser persists a new user, populating ID and CreatedAt.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListActiveMembers returns the active users of a group, ordered by
	// name. This is the member set every settlement denominator uses.
	ListActiveMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// Expenses.

	// CreateExpense persists a new expense, populating ID and CreatedAt.
	// Month and Year must already be stamped from OccurredAt.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a period's expenses ordered by occurrence
	// descending.
	ListExpenses(ctx context.Context, groupID string, month, year int) ([]*models.Expense, error)

	// LastExpenseChange returns the Unix timestamp of the most recent
	// expense recorded for the period, 0 when the period has none.
	LastExpenseChange(ctx context.Context, groupID string, month, year int) (int64, error)

	// Period confirmation state.

	// GetPeriodState retrieves the confirmation state row of a period.
	GetPeriodState(ctx context.Context, groupID string, month, year int) (*models.PeriodState, error)

	// ConfirmMember records a member's confirmation for a period, creating
	// the state row if absent. The read-modify-write of the confirmations
	// map happens inside a single transaction so concurrent confirmations
	// from different members are all retained.
	ConfirmMember(ctx context.Context, groupID, userID string, month, year int) (*models.PeriodState, error)

	// SetAllConfirmed updates the all-confirmed flag of a period row.
	SetAllConfirmed(ctx context.Context, periodID string, allConfirmed bool) error

	// RecordSettlement stores the computed settlement and marks the period
	// calculated. It is idempotent: if the period is already calculated the
	// stored figures are left untouched and applied is false.
	RecordSettlement(ctx context.Context, periodID, debtorID, creditorID string, amount float64) (applied bool, err error)

	// UpdatePeriodPayment sets the payment status, method and timestamp of
	// a period. State guards live in the service layer.
	UpdatePeriodPayment(ctx context.Context, periodID string, status models.PaymentStatus, method string, paidAt int64) error

	// LinkPeriodPlan attaches an installment plan to a period.
	LinkPeriodPlan(ctx context.Context, periodID, planID string) error

	// Installment plans.

	// CreatePlan persists a plan and its full installment schedule in one
	// transaction, populating IDs and CreatedAt fields.
	CreatePlan(ctx context.Context, plan *models.Plan, installments []*models.Installment) error

	// GetPlan retrieves a plan by ID.
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)

	// ListPlansByGroup returns a group's active plans, newest first due
	// date first.
	ListPlansByGroup(ctx context.Context, groupID string) ([]*models.Plan, error)

	// ListPlansByUser returns the active plans where the user is debtor or
	// creditor.
	ListPlansByUser(ctx context.Context, userID string) ([]*models.Plan, error)

	// UpdatePlan rewrites a plan's mutable fields (progress counters,
	// active/completed flags, completion timestamp).
	UpdatePlan(ctx context.Context, plan *models.Plan) error

	// ListInstallments returns a plan's installments ordered by sequence
	// number.
	ListInstallments(ctx context.Context, planID string) ([]*models.Installment, error)

	// GetInstallment retrieves an installment by ID.
	GetInstallment(ctx context.Context, installmentID string) (*models.Installment, error)

	// UpdateInstallment rewrites an installment's mutable fields.
	UpdateInstallment(ctx context.Context, installment *models.Installment) error

	// Close releases any resources held by the store.
	Close() error
}
