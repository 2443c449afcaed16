package calculator

// ExpenseAmount is an expense with the minimal information needed for period
// aggregation.
type ExpenseAmount struct {
	UserID   string
	Amount   float64
	Personal bool
}

// Aggregate holds the per-member and group totals of one period.
type Aggregate struct {
	// Per-member figures. Every member ID passed to Summarize has an entry,
	// even with zero expenses. Invariant: Shareable = Total - Personal.
	TotalByUser     map[string]float64
	PersonalByUser  map[string]float64
	ShareableByUser map[string]float64

	TotalSpent     float64
	TotalPersonal  float64
	TotalShareable float64

	// PerPersonShare is TotalShareable / member count, 0 with no members.
	PerPersonShare float64
}

// Summarize aggregates a period's expenses over the given members.
//
// Expenses recorded by users outside memberIDs (e.g. deactivated members) are
// ignored; members without expenses still appear with zero totals, since they
// owe a full share regardless.
func Summarize(expenses []ExpenseAmount, memberIDs []string) Aggregate {
	agg := Aggregate{
		TotalByUser:     make(map[string]float64, len(memberIDs)),
		PersonalByUser:  make(map[string]float64, len(memberIDs)),
		ShareableByUser: make(map[string]float64, len(memberIDs)),
	}

	for _, id := range memberIDs {
		agg.TotalByUser[id] = 0
		agg.PersonalByUser[id] = 0
		agg.ShareableByUser[id] = 0
	}

	for _, e := range expenses {
		if _, ok := agg.TotalByUser[e.UserID]; !ok {
			continue
		}
		agg.TotalByUser[e.UserID] += e.Amount
		if e.Personal {
			agg.PersonalByUser[e.UserID] += e.Amount
		}
	}

	for _, id := range memberIDs {
		shareable := agg.TotalByUser[id] - agg.PersonalByUser[id]
		agg.ShareableByUser[id] = shareable
		agg.TotalSpent += agg.TotalByUser[id]
		agg.TotalPersonal += agg.PersonalByUser[id]
		agg.TotalShareable += shareable
	}

	if len(memberIDs) > 0 {
		agg.PerPersonShare = agg.TotalShareable / float64(len(memberIDs))
	}

	return agg
}
