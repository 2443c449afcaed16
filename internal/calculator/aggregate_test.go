package calculator

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []ExpenseAmount
		members      []string
		validateFunc func(t *testing.T, agg Aggregate)
	}{
		{
			name: "shared and personal split per member",
			expenses: []ExpenseAmount{
				{UserID: "A", Amount: 60.0},
				{UserID: "A", Amount: 40.0, Personal: true},
				{UserID: "B", Amount: 20.0},
			},
			members: []string{"A", "B"},
			validateFunc: func(t *testing.T, agg Aggregate) {
				if agg.TotalByUser["A"] != 100.0 {
					t.Errorf("A total = %v, want 100", agg.TotalByUser["A"])
				}
				if agg.PersonalByUser["A"] != 40.0 {
					t.Errorf("A personal = %v, want 40", agg.PersonalByUser["A"])
				}
				if agg.ShareableByUser["A"] != 60.0 {
					t.Errorf("A shareable = %v, want 60", agg.ShareableByUser["A"])
				}
				if agg.TotalShareable != 80.0 {
					t.Errorf("TotalShareable = %v, want 80", agg.TotalShareable)
				}
				if agg.PerPersonShare != 40.0 {
					t.Errorf("PerPersonShare = %v, want 40", agg.PerPersonShare)
				}
			},
		},
		{
			name:     "member with no expenses still gets an entry",
			expenses: []ExpenseAmount{{UserID: "A", Amount: 100.0}},
			members:  []string{"A", "B"},
			validateFunc: func(t *testing.T, agg Aggregate) {
				if _, ok := agg.TotalByUser["B"]; !ok {
					t.Fatal("expected an entry for B")
				}
				if agg.TotalByUser["B"] != 0 {
					t.Errorf("B total = %v, want 0", agg.TotalByUser["B"])
				}
				if agg.PerPersonShare != 50.0 {
					t.Errorf("PerPersonShare = %v, want 50", agg.PerPersonShare)
				}
			},
		},
		{
			name:     "expenses from non-members are ignored",
			expenses: []ExpenseAmount{{UserID: "ghost", Amount: 30.0}},
			members:  []string{"A"},
			validateFunc: func(t *testing.T, agg Aggregate) {
				if agg.TotalSpent != 0 {
					t.Errorf("TotalSpent = %v, want 0", agg.TotalSpent)
				}
			},
		},
		{
			name:     "no members yields zero share",
			expenses: nil,
			members:  nil,
			validateFunc: func(t *testing.T, agg Aggregate) {
				if agg.PerPersonShare != 0 {
					t.Errorf("PerPersonShare = %v, want 0", agg.PerPersonShare)
				}
				if agg.TotalShareable != 0 {
					t.Errorf("TotalShareable = %v, want 0", agg.TotalShareable)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateFunc(t, Summarize(tt.expenses, tt.members))
		})
	}
}

// Summing shareable over members must equal the group total, and balances
// must cancel out within rounding.
func TestSummarizeBalancesSumToZero(t *testing.T) {
	expenses := []ExpenseAmount{
		{UserID: "A", Amount: 33.33},
		{UserID: "B", Amount: 12.87},
		{UserID: "B", Amount: 5.00, Personal: true},
		{UserID: "C", Amount: 77.19},
	}
	members := []string{"A", "B", "C"}

	agg := Summarize(expenses, members)

	sumShareable := 0.0
	sumBalance := 0.0
	for _, id := range members {
		sumShareable += agg.ShareableByUser[id]
		sumBalance += agg.ShareableByUser[id] - agg.PerPersonShare
	}

	if math.Abs(sumShareable-agg.TotalShareable) > 0.001 {
		t.Errorf("sum of shareable = %v, want %v", sumShareable, agg.TotalShareable)
	}
	if math.Abs(sumBalance) > 0.01 {
		t.Errorf("balances sum to %v, want ~0", sumBalance)
	}
}
