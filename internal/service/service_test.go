package service

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/storage"
	"github.com/mluna/hogarledger/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hogarledger-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedGroup(t *testing.T, store storage.Store, memberNames ...string) (*models.Group, []*models.User) {
	t.Helper()
	ctx := context.Background()

	group := &models.Group{Name: "Casa Test"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	var members []*models.User
	for _, name := range memberNames {
		user := &models.User{Name: name, GroupID: group.ID, Active: true}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", name, err)
		}
		members = append(members, user)
	}
	return group, members
}

func recordExpense(t *testing.T, svc *ExpenseService, user *models.User, amount float64, personal bool) {
	t.Helper()

	err := svc.Record(context.Background(), &models.Expense{
		UserID:      user.ID,
		GroupID:     user.GroupID,
		Amount:      amount,
		Description: "compra",
		Personal:    personal,
		OccurredAt:  time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC).Unix(),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}
