package models

// PaymentStatus tracks the settlement payment of a period. Transitions are
// one-directional: pending → paid → confirmed.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// PeriodState is the persisted confirmation and settlement state of one
// (group, month, year) period. There is exactly one row per period; it is
// created lazily on the first confirmation.
type PeriodState struct {
	// ID is the unique identifier for the period state (UUID format).
	ID string `json:"id"`

	// GroupID, Month and Year identify the period.
	GroupID string `json:"group_id"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`

	// Confirmations maps member ID → confirmed. Members absent from the map
	// have not confirmed.
	Confirmations map[string]bool `json:"confirmations"`

	// AllConfirmed is true once every active member has confirmed.
	AllConfirmed bool `json:"all_confirmed"`

	// Calculated is set permanently when the settlement has been computed.
	// Once true the settlement figures below never change.
	Calculated bool `json:"calculated"`

	// DebtorID and CreditorID identify the single settlement transfer for
	// the period. Both empty when the period balances within the epsilon.
	DebtorID   string `json:"debtor_id,omitempty"`
	CreditorID string `json:"creditor_id,omitempty"`

	// DebtAmount is the settlement amount in euros, rounded to 2 decimals.
	DebtAmount float64 `json:"debt_amount"`

	// PaymentStatus, PaymentMethod and PaidAt track the debtor's payment.
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	PaidAt        int64         `json:"paid_at,omitempty"`

	// PlanID links an installment plan created to pay off this period's
	// debt. Empty when the debt is settled directly.
	PlanID string `json:"plan_id,omitempty"`

	// CalculatedAt is the Unix timestamp when the settlement was computed.
	CalculatedAt int64 `json:"calculated_at,omitempty"`

	// CreatedAt is the Unix timestamp when the row was created.
	CreatedAt int64 `json:"created_at"`
}

// Confirmed reports whether the given member has confirmed the period.
func (p *PeriodState) Confirmed(userID string) bool {
	return p.Confirmations[userID]
}

// ConfirmationCount returns how many members have confirmed so far.
func (p *PeriodState) ConfirmationCount() int {
	n := 0
	for _, ok := range p.Confirmations {
		if ok {
			n++
		}
	}
	return n
}
