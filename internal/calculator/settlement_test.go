package calculator

import (
	"math"
	"testing"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name           string
		shareable      map[string]float64
		perPersonShare float64
		wantDebtor     string
		wantCreditor   string
		wantAmount     float64
	}{
		{
			name: "two members, one paid everything",
			// A spent 100 shared, B spent nothing, share is 50 each:
			// A balance +50, B balance -50.
			shareable:      map[string]float64{"A": 100.0, "B": 0.0},
			perPersonShare: 50.0,
			wantDebtor:     "B",
			wantCreditor:   "A",
			wantAmount:     50.0,
		},
		{
			name: "three members, middle spender untouched",
			// 90/60/30 shared, share 60 each: balances +30/0/-30.
			// Only the largest debtor and creditor are matched.
			shareable:      map[string]float64{"ana": 90.0, "bea": 60.0, "carla": 30.0},
			perPersonShare: 60.0,
			wantDebtor:     "carla",
			wantCreditor:   "ana",
			wantAmount:     30.0,
		},
		{
			name:           "balanced period yields no settlement",
			shareable:      map[string]float64{"A": 50.0, "B": 50.0},
			perPersonShare: 50.0,
			wantDebtor:     "",
			wantCreditor:   "",
			wantAmount:     0,
		},
		{
			name:           "imbalance below one cent is ignored",
			shareable:      map[string]float64{"A": 50.004, "B": 49.996},
			perPersonShare: 50.0,
			wantDebtor:     "",
			wantCreditor:   "",
			wantAmount:     0,
		},
		{
			name:           "single member cannot owe anyone",
			shareable:      map[string]float64{"A": 120.0},
			perPersonShare: 120.0,
			wantDebtor:     "",
			wantCreditor:   "",
			wantAmount:     0,
		},
		{
			name:           "no members",
			shareable:      map[string]float64{},
			perPersonShare: 0,
			wantDebtor:     "",
			wantCreditor:   "",
			wantAmount:     0,
		},
		{
			name: "amount is capped by the smaller magnitude",
			// Balances: +40, -25, -15. Debtor is the -25 member and the
			// transfer cannot exceed what they owe.
			shareable:      map[string]float64{"A": 80.0, "B": 15.0, "C": 25.0},
			perPersonShare: 40.0,
			wantDebtor:     "B",
			wantCreditor:   "A",
			wantAmount:     25.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(tt.shareable, tt.perPersonShare)
			if got.DebtorID != tt.wantDebtor {
				t.Errorf("DebtorID = %q, want %q", got.DebtorID, tt.wantDebtor)
			}
			if got.CreditorID != tt.wantCreditor {
				t.Errorf("CreditorID = %q, want %q", got.CreditorID, tt.wantCreditor)
			}
			if math.Abs(got.Amount-tt.wantAmount) > 0.001 {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
		})
	}
}

func TestSettleAmountNeverExceedsBalances(t *testing.T) {
	shareable := map[string]float64{"A": 123.45, "B": 67.89, "C": 10.0, "D": 0.0}
	share := (123.45 + 67.89 + 10.0) / 4

	got := Settle(shareable, share)
	if got.DebtorID == "" || got.CreditorID == "" {
		t.Fatalf("expected a settlement, got %+v", got)
	}

	debtorOwes := math.Abs(shareable[got.DebtorID] - share)
	creditorOwed := math.Abs(shareable[got.CreditorID] - share)
	if got.Amount > debtorOwes+0.001 {
		t.Errorf("Amount %v exceeds debtor balance %v", got.Amount, debtorOwes)
	}
	if got.Amount > creditorOwed+0.001 {
		t.Errorf("Amount %v exceeds creditor balance %v", got.Amount, creditorOwed)
	}
}
