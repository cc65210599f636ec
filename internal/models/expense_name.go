package models

import "time"

// ExpenseName is a per-user alias binding a label to a category.
type ExpenseName struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CategoryID string    `json:"category_id" db:"category_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

type ExpenseNameDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
	UserID     string `json:"user_id"`
}

func (n *ExpenseName) DTO() ExpenseNameDTO {
	return ExpenseNameDTO{ID: n.ID, Name: n.Name, CategoryID: n.CategoryID, UserID: n.UserID}
}
