package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mluna/hogarledger/internal/models"
)

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, group_id, amount, category_id, description, personal,
		                       store_name, notes, occurred_at, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.UserID, expense.GroupID, expense.Amount,
		nullable(expense.CategoryID), expense.Description, expense.Personal,
		nullable(expense.StoreName), nullable(expense.Notes),
		expense.OccurredAt, expense.Month, expense.Year, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// ListExpenses retrieves a period's expenses ordered by occurrence descending.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, month, year int) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, group_id, amount, category_id, description, personal,
		        store_name, notes, occurred_at, month, year, created_at
		 FROM expenses WHERE group_id = ? AND month = ? AND year = ?
		 ORDER BY occurred_at DESC`,
		groupID, month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		var categoryID, storeName, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.GroupID, &e.Amount, &categoryID,
			&e.Description, &e.Personal, &storeName, &notes,
			&e.OccurredAt, &e.Month, &e.Year, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.CategoryID = categoryID.String
		e.StoreName = storeName.String
		e.Notes = notes.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// LastExpenseChange returns the newest created_at for the period, 0 if none.
func (s *SQLiteStore) LastExpenseChange(ctx context.Context, groupID string, month, year int) (int64, error) {
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(created_at) FROM expenses WHERE group_id = ? AND month = ? AND year = ?",
		groupID, month, year,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("failed to get last expense change: %w", err)
	}
	return last.Int64, nil
}
