package service

import (
	"context"
	"testing"
	"time"

	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/models"
)

func TestRecordValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	_, members := seedGroup(t, store, "Ana")

	tests := []struct {
		name    string
		expense *models.Expense
		wantErr errs.Kind
	}{
		{
			name:    "zero amount rejected",
			expense: &models.Expense{UserID: members[0].ID, GroupID: members[0].GroupID, Amount: 0, Description: "pan"},
			wantErr: errs.KindInvalidInput,
		},
		{
			name:    "negative amount rejected",
			expense: &models.Expense{UserID: members[0].ID, GroupID: members[0].GroupID, Amount: -5, Description: "pan"},
			wantErr: errs.KindInvalidInput,
		},
		{
			name:    "empty description rejected",
			expense: &models.Expense{UserID: members[0].ID, GroupID: members[0].GroupID, Amount: 10, Description: "   "},
			wantErr: errs.KindInvalidInput,
		},
		{
			name:    "valid expense accepted",
			expense: &models.Expense{UserID: members[0].ID, GroupID: members[0].GroupID, Amount: 10, Description: "pan"},
			wantErr: errs.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Record(context.Background(), tt.expense)
			if tt.wantErr == errs.KindUnknown {
				if err != nil {
					t.Fatalf("Record failed: %v", err)
				}
				return
			}
			if errs.KindOf(err) != tt.wantErr {
				t.Errorf("got error %v, want kind %s", err, tt.wantErr)
			}
		})
	}
}

func TestRecordStampsPeriod(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	_, members := seedGroup(t, store, "Ana")
	ctx := context.Background()

	occurred := time.Date(2024, 11, 30, 23, 0, 0, 0, time.UTC)
	expense := &models.Expense{
		UserID:      members[0].ID,
		GroupID:     members[0].GroupID,
		Amount:      12.345,
		Description: "cena",
		OccurredAt:  occurred.Unix(),
	}
	if err := svc.Record(ctx, expense); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if expense.Month != 11 || expense.Year != 2024 {
		t.Errorf("period = %d/%d, want 11/2024", expense.Month, expense.Year)
	}
	if expense.Amount != 12.35 {
		t.Errorf("Amount = %v, want rounded 12.35", expense.Amount)
	}

	listed, err := svc.List(ctx, members[0].GroupID, 11, 2024)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d expenses, want 1", len(listed))
	}
}

func TestSummary(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	group, members := seedGroup(t, store, "Ana", "Bea")
	ctx := context.Background()

	// Ana spends 100 shared and 20 personal, Bea nothing.
	recordExpense(t, svc, members[0], 100, false)
	recordExpense(t, svc, members[0], 20, true)

	summary, err := svc.Summary(ctx, group.ID, 5, 2024)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if !approxEqual(summary.TotalSpent, 120) {
		t.Errorf("TotalSpent = %v, want 120", summary.TotalSpent)
	}
	if !approxEqual(summary.TotalShareable, 100) {
		t.Errorf("TotalShareable = %v, want 100", summary.TotalShareable)
	}
	if !approxEqual(summary.TotalPersonal, 20) {
		t.Errorf("TotalPersonal = %v, want 20", summary.TotalPersonal)
	}
	if !approxEqual(summary.PerPersonShare, 50) {
		t.Errorf("PerPersonShare = %v, want 50", summary.PerPersonShare)
	}
	if summary.DebtorID != members[1].ID || summary.CreditorID != members[0].ID {
		t.Errorf("settlement = %s owes %s, want Bea owes Ana", summary.DebtorID, summary.CreditorID)
	}
	if !approxEqual(summary.DebtAmount, 50) {
		t.Errorf("DebtAmount = %v, want 50", summary.DebtAmount)
	}
	if len(summary.Members) != 2 {
		t.Fatalf("got %d member figures, want 2", len(summary.Members))
	}
	if summary.Explanation == "" {
		t.Error("expected an explanation to be generated")
	}

	// Member with no expenses still appears with zero figures.
	for _, m := range summary.Members {
		if m.UserID == members[1].ID && m.Total != 0 {
			t.Errorf("Bea's total = %v, want 0", m.Total)
		}
	}
}

func TestSummaryReflectsWrites(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	group, members := seedGroup(t, store, "Ana", "Bea")
	ctx := context.Background()

	recordExpense(t, svc, members[0], 60, false)

	first, err := svc.Summary(ctx, group.ID, 5, 2024)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !approxEqual(first.TotalShareable, 60) {
		t.Errorf("TotalShareable = %v, want 60", first.TotalShareable)
	}

	// A second read without writes is served from the memo and must match.
	again, err := svc.Summary(ctx, group.ID, 5, 2024)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if again.TotalShareable != first.TotalShareable {
		t.Errorf("memoized summary diverged: %v vs %v", again.TotalShareable, first.TotalShareable)
	}

	// A write must be visible on the next read.
	recordExpense(t, svc, members[1], 40, false)

	updated, err := svc.Summary(ctx, group.ID, 5, 2024)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if !approxEqual(updated.TotalShareable, 100) {
		t.Errorf("TotalShareable after write = %v, want 100", updated.TotalShareable)
	}
}

func TestSummaryEmptyPeriod(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	group, _ := seedGroup(t, store, "Ana", "Bea")

	summary, err := svc.Summary(context.Background(), group.ID, 1, 2024)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalSpent != 0 || summary.DebtAmount != 0 {
		t.Errorf("empty period should have zero figures, got %+v", summary)
	}
	if summary.DebtorID != "" || summary.CreditorID != "" {
		t.Error("empty period should have no debtor or creditor")
	}
	if summary.PaymentStatus != models.PaymentPending {
		t.Errorf("PaymentStatus = %s, want pending", summary.PaymentStatus)
	}
}

func TestSummaryUnknownGroup(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)

	_, err := svc.Summary(context.Background(), "nope", 5, 2024)
	if !errs.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
