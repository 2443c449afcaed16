package models

// MemberFigures is one member's slice of a MonthlySummary.
type MemberFigures struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`

	// Total = Personal + Shareable.
	Total     float64 `json:"total"`
	Personal  float64 `json:"personal"`
	Shareable float64 `json:"shareable"`

	// Balance = Shareable - the period's per-person share. Positive means
	// the member is owed money, negative means the member owes.
	Balance float64 `json:"balance"`

	// Confirmed mirrors the period confirmation state for this member.
	Confirmed bool `json:"confirmed"`
}

// MonthlySummary is the derived aggregation of one (group, month, year)
// period. It is recomputed on demand (and memoized keyed by the period's
// last expense modification), never persisted.
//
// It intentionally exposes every numeric figure of the settlement arithmetic
// so a presentation layer can reconstruct the full explanation.
type MonthlySummary struct {
	GroupID string `json:"group_id"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`

	// Members holds per-member figures for every active member, including
	// members with zero expenses (they still owe a share).
	Members []MemberFigures `json:"members"`

	// Totals across all members.
	TotalSpent     float64 `json:"total_spent"`
	TotalPersonal  float64 `json:"total_personal"`
	TotalShareable float64 `json:"total_shareable"`

	// PerPersonShare is TotalShareable divided by the member count,
	// 0 when the group has no members.
	PerPersonShare float64 `json:"per_person_share"`

	// Settlement result: the single debtor → creditor transfer. Both IDs
	// empty and DebtAmount 0 when the period balances within the epsilon.
	// This is a single-pair reduction: with more than two imbalanced
	// members only the largest debtor and creditor are matched.
	DebtorID   string  `json:"debtor_id,omitempty"`
	CreditorID string  `json:"creditor_id,omitempty"`
	DebtAmount float64 `json:"debt_amount"`

	// Confirmation state copied from the period row, when one exists.
	Confirmations map[string]bool `json:"confirmations"`
	AllConfirmed  bool            `json:"all_confirmed"`
	Calculated    bool            `json:"calculated"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PlanID        string          `json:"plan_id,omitempty"`

	// Explanation is a human-readable, multi-paragraph breakdown of the
	// arithmetic above, ready for display.
	Explanation string `json:"explanation"`
}
