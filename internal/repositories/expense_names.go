package repositories

import (
	"context"
	"fmt"
	"time"

	"expense_tracker/internal/models"
)

const expenseNameColumns = "id, name, category_id, user_id, created_at"

func scanExpenseName(row interface{ Scan(...any) error }) (*models.ExpenseName, error) {
	var n models.ExpenseName
	if err := row.Scan(&n.ID, &n.Name, &n.CategoryID, &n.UserID, &n.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// GetFirstExpenseName returns the oldest alias of the user for label.
// created_at keeps microseconds so aliases made in the same second still order.
func (q *Queries) GetFirstExpenseName(ctx context.Context, userID, label string) (*models.ExpenseName, error) {
	return scanExpenseName(q.queryRow(ctx, `SELECT `+expenseNameColumns+`
		FROM expense_names WHERE user_id = ? AND name = ?
		ORDER BY created_at, id LIMIT 1`, userID, label))
}

func (q *Queries) GetExpenseName(ctx context.Context, userID, label, categoryID string) (*models.ExpenseName, error) {
	return scanExpenseName(q.queryRow(ctx, `SELECT `+expenseNameColumns+`
		FROM expense_names WHERE user_id = ? AND name = ? AND category_id = ?`, userID, label, categoryID))
}

func (q *Queries) CreateExpenseName(ctx context.Context, n *models.ExpenseName) error {
	_, err := q.exec(ctx, `INSERT INTO expense_names (`+expenseNameColumns+`) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Name, n.CategoryID, n.UserID, n.CreatedAt.UTC().Truncate(time.Microsecond))
	if err != nil {
		return fmt.Errorf("insert expense name: %w", err)
	}
	return nil
}
