package models

import (
	"database/sql"
	"time"
)

// Category is a global category shared by every user.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// CustomCategory is owned by one user and deleted logically.
type CustomCategory struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	UserID    string    `json:"user_id" db:"user_id"`
	IsDeleted bool      `json:"-" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExpenseCategory points at exactly one of a global or a custom category.
type ExpenseCategory struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	GlobalCategoryID sql.NullString `json:"-" db:"global_category_id"`
	CustomCategoryID sql.NullString `json:"-" db:"custom_category_id"`
}

func (c *ExpenseCategory) IsCustom() bool {
	return c.CustomCategoryID.Valid
}

type CategoryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsCustom bool   `json:"is_custom"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}
