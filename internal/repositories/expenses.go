package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"expense_tracker/internal/models"

	"github.com/shopspring/decimal"
)

// Every read goes through this join; deleted expenses never leave it.
const expenseSelect = `SELECT e.id, e.name_id, e.user_id, e.date, e.amount, e.note, e.created_at, e.updated_at, e.is_deleted,
	en.name, ec.id, ec.name
	FROM expenses e
	JOIN expense_names en ON en.id = e.name_id
	JOIN expense_categories ec ON ec.id = en.category_id
	WHERE e.user_id = ? AND e.is_deleted = FALSE`

func scanExpenseRow(row interface{ Scan(...any) error }) (*models.ExpenseRow, error) {
	var e models.ExpenseRow
	err := row.Scan(&e.ID, &e.NameID, &e.UserID, &e.Date, &e.Amount, &e.Note, &e.CreatedAt, &e.UpdatedAt, &e.IsDeleted,
		&e.Name, &e.CategoryID, &e.Category)
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// ExpenseFilter is a resolved FilterOptions: dates parsed, enums checked.
type ExpenseFilter struct {
	NameContains     string
	CategoryContains string
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
	From             *time.Time
	To               *time.Time
	SortBy           string
	OrderBy          string
	Offset           int
	Limit            int
}

func (q *Queries) CreateExpense(ctx context.Context, e *models.Expense) error {
	_, err := q.exec(ctx, `INSERT INTO expenses (id, name_id, user_id, date, amount, note, created_at, updated_at, is_deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.NameID, e.UserID, DBTime(e.Date), e.Amount, e.Note, DBTime(e.CreatedAt), DBTime(e.UpdatedAt), e.IsDeleted)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (q *Queries) GetExpense(ctx context.Context, userID, id string) (*models.ExpenseRow, error) {
	return scanExpenseRow(q.queryRow(ctx, expenseSelect+` AND e.id = ?`, userID, id))
}

// UpdateExpense writes the mutable columns of a live expense owned by e.UserID.
func (q *Queries) UpdateExpense(ctx context.Context, e *models.Expense) error {
	res, err := q.exec(ctx, `UPDATE expenses SET name_id = ?, date = ?, amount = ?, note = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_deleted = FALSE`,
		e.NameID, DBTime(e.Date), e.Amount, e.Note, DBTime(e.UpdatedAt), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) SoftDeleteExpense(ctx context.Context, userID, id string, at time.Time) (bool, error) {
	res, err := q.exec(ctx, `UPDATE expenses SET is_deleted = TRUE, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_deleted = FALSE`, DBTime(at), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return affected(res)
}

func (q *Queries) ListExpenses(ctx context.Context, userID string, f ExpenseFilter) ([]models.ExpenseRow, error) {
	var sb strings.Builder
	sb.WriteString(expenseSelect)
	args := []any{userID}

	if f.NameContains != "" {
		sb.WriteString(` AND LOWER(en.name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.NameContains)+"%")
	}
	if f.CategoryContains != "" {
		sb.WriteString(` AND LOWER(ec.name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(f.CategoryContains)+"%")
	}
	if f.MinAmount != nil {
		sb.WriteString(` AND e.amount >= ?`)
		args = append(args, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		sb.WriteString(` AND e.amount <= ?`)
		args = append(args, *f.MaxAmount)
	}
	if f.From != nil {
		sb.WriteString(` AND e.date >= ?`)
		args = append(args, DBTime(*f.From))
	}
	if f.To != nil {
		sb.WriteString(` AND e.date <= ?`)
		args = append(args, DBTime(*f.To))
	}

	sb.WriteString(` ORDER BY ` + sortColumn(f.SortBy) + ` ` + sortOrder(f.OrderBy) + `, e.id ` + sortOrder(f.OrderBy))
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, f.Limit, f.Offset)

	rows, err := q.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.ExpenseRow{}
	for rows.Next() {
		e, err := scanExpenseRow(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// ListExpensesSince returns every live expense of the user dated at or after since.
func (q *Queries) ListExpensesSince(ctx context.Context, userID string, since time.Time) ([]models.ExpenseRow, error) {
	rows, err := q.query(ctx, expenseSelect+` AND e.date >= ? ORDER BY e.date`, userID, DBTime(since))
	if err != nil {
		return nil, fmt.Errorf("list expenses since: %w", err)
	}
	defer rows.Close()

	expenses := []models.ExpenseRow{}
	for rows.Next() {
		e, err := scanExpenseRow(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// CountExpenseRows counts rows including deleted ones.
func (q *Queries) CountExpenseRows(ctx context.Context, userID string) (int, error) {
	var n int
	if err := q.queryRow(ctx, `SELECT COUNT(*) FROM expenses WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

func sortColumn(sortBy string) string {
	if sortBy == models.SortByAmount {
		return "e.amount"
	}
	return "e.date"
}

func sortOrder(orderBy string) string {
	if orderBy == models.OrderAsc {
		return "ASC"
	}
	return "DESC"
}
