package calculator

import (
	"math"
	"testing"
	"time"
)

func TestBuildSchedule(t *testing.T) {
	tests := []struct {
		name          string
		total         float64
		count         int
		frequencyDays int
		wantAmounts   []float64
	}{
		{
			name:          "even division needs no remainder absorption",
			total:         50.00,
			count:         4,
			frequencyDays: 7,
			wantAmounts:   []float64{12.50, 12.50, 12.50, 12.50},
		},
		{
			name:          "last installment absorbs the rounding cent",
			total:         100.00,
			count:         3,
			frequencyDays: 30,
			wantAmounts:   []float64{33.33, 33.33, 33.34},
		},
		{
			name:          "repeating decimal over many installments",
			total:         10.00,
			count:         12,
			frequencyDays: 15,
			// 10/12 = 0.8333 → 0.83 × 11 + 0.87
			wantAmounts: []float64{0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.83, 0.87},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			firstDue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			schedule := BuildSchedule(tt.total, tt.count, firstDue, tt.frequencyDays)

			if len(schedule) != tt.count {
				t.Fatalf("got %d installments, want %d", len(schedule), tt.count)
			}

			sum := 0.0
			for i, inst := range schedule {
				if inst.Number != i+1 {
					t.Errorf("installment %d has Number %d", i, inst.Number)
				}
				if math.Abs(inst.Amount-tt.wantAmounts[i]) > 0.001 {
					t.Errorf("installment %d amount = %v, want %v", inst.Number, inst.Amount, tt.wantAmounts[i])
				}
				wantDue := firstDue.AddDate(0, 0, i*tt.frequencyDays).Unix()
				if inst.DueAt != wantDue {
					t.Errorf("installment %d due = %d, want %d", inst.Number, inst.DueAt, wantDue)
				}
				sum = RoundTo2(sum + inst.Amount)
			}

			if math.Abs(sum-tt.total) > 0.001 {
				t.Errorf("schedule sums to %v, want exactly %v", sum, tt.total)
			}
		})
	}
}

func TestBuildScheduleDueDates(t *testing.T) {
	firstDue := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	schedule := BuildSchedule(50.00, 4, firstDue, 7)

	wantDates := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	for i, inst := range schedule {
		got := time.Unix(inst.DueAt, 0).UTC().Format("2006-01-02")
		if got != wantDates[i] {
			t.Errorf("installment %d due on %s, want %s", inst.Number, got, wantDates[i])
		}
	}
}
