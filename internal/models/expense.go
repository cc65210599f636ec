package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DisplayTimeLayout is how dates leave the API.
const DisplayTimeLayout = "02-01-2006 15:04"

type Expense struct {
	ID        string          `json:"id" db:"id"`
	NameID    string          `json:"name_id" db:"name_id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Date      time.Time       `json:"date" db:"date"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Note      sql.NullString  `json:"note" db:"note"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	IsDeleted bool            `json:"-" db:"is_deleted"`
}

// ExpenseRow is an expense joined with its alias and category names.
type ExpenseRow struct {
	Expense
	Name       string
	CategoryID string
	Category   string
}

func (e *ExpenseRow) Response(loc *time.Location) ExpenseResponse {
	resp := ExpenseResponse{
		ID:        e.ID,
		Name:      e.Name,
		Category:  e.Category,
		Amount:    json.Number(e.Amount.StringFixed(2)),
		Date:      e.Date.In(loc).Format(DisplayTimeLayout),
		CreatedAt: e.CreatedAt.In(loc).Format(DisplayTimeLayout),
		UpdatedAt: e.UpdatedAt.In(loc).Format(DisplayTimeLayout),
	}
	if e.Note.Valid {
		note := e.Note.String
		resp.Note = &note
	}
	return resp
}

type ExpenseResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Category  string      `json:"category"`
	Amount    json.Number `json:"amount"`
	Date      string      `json:"date"`
	Note      *string     `json:"note"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

type CreateExpenseRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Note     *string         `json:"note,omitempty"`
}

// UpdateExpenseRequest is a partial update; nil fields are left unchanged.
type UpdateExpenseRequest struct {
	Name     *string          `json:"name,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Category *string          `json:"category,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

func (r *UpdateExpenseRequest) Empty() bool {
	return r.Name == nil && r.Amount == nil && r.Date == nil && r.Category == nil && r.Note == nil
}

type NoteRequest struct {
	Content string `json:"content"`
}

const (
	SortByDate   = "date"
	SortByAmount = "amount"
	OrderAsc     = "asc"
	OrderDesc    = "desc"

	DefaultLimit = 10
	MaxLimit     = 100
)

// FilterOptions are the list query parameters. Dates stay raw here and are
// parsed in the owner's time zone.
type FilterOptions struct {
	ExpenseName string
	Category    string
	StartDate   string
	EndDate     string
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	TimePeriod  string
	SortBy      string
	OrderBy     string
	Offset      int
	Limit       int
}

func DefaultFilterOptions() FilterOptions {
	return FilterOptions{SortBy: SortByDate, OrderBy: OrderDesc, Limit: DefaultLimit}
}
