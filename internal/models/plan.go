package models

// InstallmentState is the stored state of one installment.
//
// Pending --pay--> Paid --confirm--> Confirmed
// Pending --cancel--> Cancelled
//
// "Overdue" is intentionally not a stored state: an installment past its due
// date that is still pending is displayed as overdue, but the row keeps its
// stored state.
type InstallmentState string

const (
	InstallmentPending   InstallmentState = "pending"
	InstallmentPaid      InstallmentState = "paid"
	InstallmentConfirmed InstallmentState = "confirmed"
	InstallmentCancelled InstallmentState = "cancelled"
)

// Plan amortizes an agreed debt between two group members into a schedule of
// dated installments. Plans live independently of the monthly cycle; an
// optional PeriodID records which settlement the plan pays off.
type Plan struct {
	// ID is the unique identifier for the plan (UUID format).
	ID string `json:"id"`

	// GroupID is the group both parties belong to.
	GroupID string `json:"group_id"`

	// DebtorID pays, CreditorID receives. Never equal.
	DebtorID   string `json:"debtor_id"`
	CreditorID string `json:"creditor_id"`

	// TotalAmount is the agreed debt in euros.
	TotalAmount float64 `json:"total_amount"`

	// InstallmentCount is the number of installments, between 2 and 12.
	InstallmentCount int `json:"installment_count"`

	// FrequencyDays is the spacing between due dates, between 1 and 365.
	FrequencyDays int `json:"frequency_days"`

	// InstallmentAmount is the per-installment amount, TotalAmount/count
	// rounded to 2 decimals. The last installment absorbs the rounding
	// remainder so the schedule sums to TotalAmount exactly.
	InstallmentAmount float64 `json:"installment_amount"`

	// PaidCount, PaidAmount and RemainingAmount track progress.
	// Invariant: RemainingAmount = TotalAmount - PaidAmount.
	PaidCount       int     `json:"paid_count"`
	PaidAmount      float64 `json:"paid_amount"`
	RemainingAmount float64 `json:"remaining_amount"`

	// Description and Reason are optional free-text annotations.
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason,omitempty"`

	// FirstDueAt is the Unix timestamp of the first installment's due date.
	FirstDueAt int64 `json:"first_due_at"`

	// Active is false once the plan has been cancelled.
	Active bool `json:"active"`

	// Completed is true once PaidAmount covers TotalAmount, or after a
	// manual close-out. CompletedAt records when.
	Completed   bool  `json:"completed"`
	CompletedAt int64 `json:"completed_at,omitempty"`

	// PeriodID optionally links the monthly settlement this plan pays off.
	PeriodID string `json:"period_id,omitempty"`

	// CreatedAt is the Unix timestamp when the plan was created.
	CreatedAt int64 `json:"created_at"`
}

// Installment is one dated payment of a plan. Number is 1-based and unique
// within the plan.
type Installment struct {
	// ID is the unique identifier for the installment (UUID format).
	ID string `json:"id"`

	// PlanID is the owning plan.
	PlanID string `json:"plan_id"`

	// Number is the 1-based sequence number within the plan.
	Number int `json:"number"`

	// Amount is the installment amount in euros.
	Amount float64 `json:"amount"`

	// DueAt is the Unix timestamp of the due date.
	DueAt int64 `json:"due_at"`

	// State is the stored lifecycle state.
	State InstallmentState `json:"state"`

	// PaidAt, PaymentMethod and Notes are stamped when the debtor pays.
	PaidAt        int64  `json:"paid_at,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Notes         string `json:"notes,omitempty"`

	// Confirmed and ConfirmedAt are stamped when the creditor confirms
	// receipt.
	Confirmed   bool  `json:"confirmed"`
	ConfirmedAt int64 `json:"confirmed_at,omitempty"`

	// CreatedAt is the Unix timestamp when the installment was created.
	CreatedAt int64 `json:"created_at"`
}

// OverdueAt reports whether the installment should be displayed as overdue at
// the given time: past due and still pending.
func (i *Installment) OverdueAt(nowUnix int64) bool {
	return i.State == InstallmentPending && i.DueAt < nowUnix
}
