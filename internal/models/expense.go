package models

// Expense is a single recorded entry against a group. Expenses are immutable
// once recorded; Month and Year are derived from OccurredAt when the entry is
// persisted.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// UserID is the member who paid the expense.
	UserID string `json:"user_id"`

	// GroupID is the group the expense belongs to.
	GroupID string `json:"group_id"`

	// Amount is the expense amount in euros. Always positive.
	Amount float64 `json:"amount"`

	// CategoryID is an opaque category reference managed by the caller.
	CategoryID string `json:"category_id,omitempty"`

	// Description is a short, non-empty description.
	Description string `json:"description"`

	// Personal marks an expense that is NOT divided among the group
	// (a gift or treat from one member). Personal expenses count toward the
	// payer's total but not toward the shareable pot.
	Personal bool `json:"personal"`

	// StoreName and Notes are optional free-text annotations.
	StoreName string `json:"store_name,omitempty"`
	Notes     string `json:"notes,omitempty"`

	// OccurredAt is the Unix timestamp of the purchase.
	OccurredAt int64 `json:"occurred_at"`

	// Month and Year are derived from OccurredAt on record and index the
	// expense into its settlement period.
	Month int `json:"month"`
	Year  int `json:"year"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}
