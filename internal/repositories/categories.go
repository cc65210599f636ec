package repositories

import (
	"context"
	"fmt"

	"expense_tracker/internal/models"
)

const expenseCategoryColumns = "ec.id, ec.name, ec.global_category_id, ec.custom_category_id"

func scanExpenseCategory(row interface{ Scan(...any) error }) (*models.ExpenseCategory, error) {
	var ec models.ExpenseCategory
	if err := row.Scan(&ec.ID, &ec.Name, &ec.GlobalCategoryID, &ec.CustomCategoryID); err != nil {
		return nil, notFound(err)
	}
	return &ec, nil
}

// GetGlobalExpenseCategory finds the link row of the global category named exactly name.
func (q *Queries) GetGlobalExpenseCategory(ctx context.Context, name string) (*models.ExpenseCategory, error) {
	return scanExpenseCategory(q.queryRow(ctx, `SELECT `+expenseCategoryColumns+`
		FROM expense_categories ec
		JOIN categories c ON c.id = ec.global_category_id
		WHERE c.name = ?`, name))
}

// GetCustomExpenseCategory finds the link row of the user's live custom category named exactly name.
func (q *Queries) GetCustomExpenseCategory(ctx context.Context, userID, name string) (*models.ExpenseCategory, error) {
	return scanExpenseCategory(q.queryRow(ctx, `SELECT `+expenseCategoryColumns+`
		FROM expense_categories ec
		JOIN custom_categories cc ON cc.id = ec.custom_category_id
		WHERE cc.user_id = ? AND cc.name = ? AND cc.is_deleted = FALSE`, userID, name))
}

func (q *Queries) GetExpenseCategoryByCustomID(ctx context.Context, customCategoryID string) (*models.ExpenseCategory, error) {
	return scanExpenseCategory(q.queryRow(ctx, `SELECT `+expenseCategoryColumns+`
		FROM expense_categories ec WHERE ec.custom_category_id = ?`, customCategoryID))
}

func (q *Queries) CreateExpenseCategory(ctx context.Context, ec *models.ExpenseCategory) error {
	_, err := q.exec(ctx, `INSERT INTO expense_categories (id, name, global_category_id, custom_category_id) VALUES (?, ?, ?, ?)`,
		ec.ID, ec.Name, ec.GlobalCategoryID, ec.CustomCategoryID)
	if err != nil {
		return fmt.Errorf("insert expense category: %w", err)
	}
	return nil
}

func (q *Queries) GlobalCategoryExists(ctx context.Context, name string) (bool, error) {
	var n int
	if err := q.queryRow(ctx, `SELECT COUNT(*) FROM categories WHERE name = ?`, name).Scan(&n); err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	return n > 0, nil
}

func (q *Queries) ListGlobalCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := q.query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const customCategoryColumns = "id, name, user_id, is_deleted, created_at"

func scanCustomCategory(row interface{ Scan(...any) error }) (*models.CustomCategory, error) {
	var c models.CustomCategory
	if err := row.Scan(&c.ID, &c.Name, &c.UserID, &c.IsDeleted, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetCustomCategoryByName includes logically deleted rows.
func (q *Queries) GetCustomCategoryByName(ctx context.Context, userID, name string) (*models.CustomCategory, error) {
	return scanCustomCategory(q.queryRow(ctx, `SELECT `+customCategoryColumns+`
		FROM custom_categories WHERE user_id = ? AND name = ?`, userID, name))
}

func (q *Queries) GetCustomCategory(ctx context.Context, userID, id string) (*models.CustomCategory, error) {
	return scanCustomCategory(q.queryRow(ctx, `SELECT `+customCategoryColumns+`
		FROM custom_categories WHERE user_id = ? AND id = ? AND is_deleted = FALSE`, userID, id))
}

func (q *Queries) CreateCustomCategory(ctx context.Context, c *models.CustomCategory) error {
	_, err := q.exec(ctx, `INSERT INTO custom_categories (`+customCategoryColumns+`) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.UserID, c.IsDeleted, DBTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert custom category: %w", err)
	}
	return nil
}

// ReviveCustomCategory flips a deleted category back to live. It reports
// false if the row was not deleted, which means a concurrent revive won.
func (q *Queries) ReviveCustomCategory(ctx context.Context, id string) (bool, error) {
	res, err := q.exec(ctx, `UPDATE custom_categories SET is_deleted = FALSE WHERE id = ? AND is_deleted = TRUE`, id)
	if err != nil {
		return false, fmt.Errorf("revive custom category: %w", err)
	}
	return affected(res)
}

func (q *Queries) ListCustomCategories(ctx context.Context, userID string) ([]models.CustomCategory, error) {
	rows, err := q.query(ctx, `SELECT `+customCategoryColumns+`
		FROM custom_categories WHERE user_id = ? AND is_deleted = FALSE ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	defer rows.Close()

	categories := []models.CustomCategory{}
	for rows.Next() {
		c, err := scanCustomCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (q *Queries) SoftDeleteCustomCategory(ctx context.Context, userID, id string) (bool, error) {
	res, err := q.exec(ctx, `UPDATE custom_categories SET is_deleted = TRUE WHERE id = ? AND user_id = ? AND is_deleted = FALSE`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete custom category: %w", err)
	}
	return affected(res)
}
