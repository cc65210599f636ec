package repositories

import (
	"context"
	"fmt"

	"expense_tracker/internal/models"
)

const userColumns = "id, username, email, password_hash, timezone, is_admin, is_deleted, external_id, created_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Timezone, &u.IsAdmin, &u.IsDeleted, &u.ExternalID, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	_, err := q.exec(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Password, u.Timezone, u.IsAdmin, u.IsDeleted, u.ExternalID, DBTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns the user even when logically deleted.
func (q *Queries) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByLogin matches either the username or the email.
func (q *Queries) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`, login, login))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (q *Queries) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return scanUser(q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID))
}

func (q *Queries) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := q.exec(ctx, `UPDATE users SET username = ?, email = ?, password_hash = ?, timezone = ?, external_id = ?
		WHERE id = ? AND is_deleted = FALSE`,
		u.Username, u.Email, u.Password, u.Timezone, u.ExternalID, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
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

func (q *Queries) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := q.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_deleted = FALSE ORDER BY created_at, username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (q *Queries) SoftDeleteUser(ctx context.Context, id string) (bool, error) {
	res, err := q.exec(ctx, `UPDATE users SET is_deleted = TRUE WHERE id = ? AND is_deleted = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return affected(res)
}
