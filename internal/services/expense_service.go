package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/amqp"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const msgExpenseNotFound = "Expense not found"

type ExpenseService struct {
	store      *repositories.Store
	categories *CategoryService
	publisher  ExpensePublisher
	logger     *logrus.Logger
	now        clock
}

// NewExpenseService wires the service. publisher may be nil.
func NewExpenseService(store *repositories.Store, categories *CategoryService, publisher ExpensePublisher, logger *logrus.Logger) *ExpenseService {
	return &ExpenseService{
		store:      store,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return utils.Validation("Amount must be greater than 0.")
	}
	if !amount.Equal(amount.Round(2)) {
		return utils.Validation("Amount must have at most 2 decimal places.")
	}
	if amount.GreaterThanOrEqual(decimal.New(1, 8)) {
		return utils.Validation("Amount is too large.")
	}
	return nil
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, req models.CreateExpenseRequest) (*models.ExpenseResponse, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, utils.Validation("Expense name is required.")
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, utils.Validation("Category is required.")
	}

	var (
		row *models.ExpenseRow
		loc *time.Location
	)
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		user, err := activeUser(ctx, q, userID)
		if err != nil {
			return err
		}
		loc = user.Location()

		date, err := ParseDate(req.Date, loc)
		if err != nil {
			return err
		}

		category, err := s.categories.ResolveCategory(ctx, q, userID, req.Category)
		if err != nil {
			return err
		}
		alias, err := s.ResolveAlias(ctx, q, userID, req.Name, category.ID)
		if err != nil {
			return err
		}

		now := s.now()
		expense := &models.Expense{
			ID:        uuid.NewString(),
			NameID:    alias.ID,
			UserID:    userID,
			Date:      date,
			Amount:    req.Amount.Round(2),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
			expense.Note = sql.NullString{String: *req.Note, Valid: true}
		}
		if err := q.CreateExpense(ctx, expense); err != nil {
			return err
		}

		row, err = q.GetExpense(ctx, userID, expense.ID)
		return err
	})
	if err != nil {
		return nil, dbError(err)
	}

	s.publishRow(ctx, amqp.ExpenseCreated, row)
	resp := row.Response(loc)
	return &resp, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, userID, id string) (*models.ExpenseResponse, error) {
	user, err := activeUser(ctx, s.store.Queries, userID)
	if err != nil {
		return nil, dbError(err)
	}
	row, err := s.store.GetExpense(ctx, userID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, utils.NotFound(msgExpenseNotFound)
	}
	if err != nil {
		return nil, dbError(err)
	}
	resp := row.Response(user.Location())
	return &resp, nil
}

// ListExpenses returns one page of the user's live expenses. A missing or
// deleted user is a not-found error, never an empty page.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string, opts models.FilterOptions) ([]models.ExpenseResponse, error) {
	user, err := activeUser(ctx, s.store.Queries, userID)
	if err != nil {
		return nil, dbError(err)
	}
	loc := user.Location()

	filter, err := s.resolveFilter(opts, loc)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListExpenses(ctx, userID, filter)
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]models.ExpenseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Response(loc))
	}
	return out, nil
}

func (s *ExpenseService) resolveFilter(opts models.FilterOptions, loc *time.Location) (repositories.ExpenseFilter, error) {
	f := repositories.ExpenseFilter{
		NameContains:     strings.TrimSpace(opts.ExpenseName),
		CategoryContains: strings.TrimSpace(opts.Category),
		MinAmount:        opts.MinAmount,
		MaxAmount:        opts.MaxAmount,
		SortBy:           opts.SortBy,
		OrderBy:          opts.OrderBy,
		Offset:           opts.Offset,
		Limit:            opts.Limit,
	}

	if f.SortBy == "" {
		f.SortBy = models.SortByDate
	}
	if f.SortBy != models.SortByDate && f.SortBy != models.SortByAmount {
		return f, utils.Validation("sort_by must be one of: date, amount")
	}
	if f.OrderBy == "" {
		f.OrderBy = models.OrderDesc
	}
	if f.OrderBy != models.OrderAsc && f.OrderBy != models.OrderDesc {
		return f, utils.Validation("order_by must be one of: asc, desc")
	}
	if f.Offset < 0 {
		return f, utils.Validation("offset cannot be negative")
	}
	if f.Limit == 0 {
		f.Limit = models.DefaultLimit
	}
	if f.Limit < 1 || f.Limit > models.MaxLimit {
		return f, utils.Validation("limit must be between 1 and 100")
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return f, utils.Validation("min_amount cannot be greater than max_amount")
	}

	if opts.StartDate != "" {
		from, err := ParseDate(opts.StartDate, loc)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if opts.EndDate != "" {
		to, err := ParseDate(opts.EndDate, loc)
		if err != nil {
			return f, err
		}
		if isDateOnly(opts.EndDate) {
			to = to.AddDate(0, 0, 1).Add(-time.Second)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, utils.Validation("start_date cannot be after end_date")
	}

	// an explicit range wins over a relative period
	if opts.TimePeriod != "" && f.From == nil && f.To == nil {
		from, err := PeriodStart(opts.TimePeriod, s.now(), loc)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	return f, nil
}

// UpdateExpense applies a partial update. A new category only moves this
// expense: it is re-pointed at the alias (label, category), which is
// created if missing, and other expenses sharing the old alias keep it.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, id string, req models.UpdateExpenseRequest) (*models.ExpenseResponse, error) {
	if req.Empty() {
		return nil, utils.Validation("No fields to update.")
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, utils.Validation("Expense name cannot be empty.")
	}

	var (
		row *models.ExpenseRow
		loc *time.Location
	)
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		user, err := activeUser(ctx, q, userID)
		if err != nil {
			return err
		}
		loc = user.Location()

		current, err := q.GetExpense(ctx, userID, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.NotFound(msgExpenseNotFound)
		}
		if err != nil {
			return err
		}
		expense := current.Expense

		if req.Amount != nil {
			expense.Amount = req.Amount.Round(2)
		}
		if req.Date != nil {
			if expense.Date, err = ParseDate(*req.Date, loc); err != nil {
				return err
			}
		}
		if req.Note != nil {
			expense.Note = sql.NullString{String: *req.Note, Valid: strings.TrimSpace(*req.Note) != ""}
		}

		label := current.Name
		if req.Name != nil {
			label = strings.TrimSpace(*req.Name)
		}
		categoryID := current.CategoryID
		if req.Category != nil {
			category, err := s.categories.ResolveCategory(ctx, q, userID, *req.Category)
			if err != nil {
				return err
			}
			categoryID = category.ID
		}

		switch {
		case categoryID != current.CategoryID:
			alias, err := s.aliasInCategory(ctx, q, userID, label, categoryID)
			if err != nil {
				return err
			}
			expense.NameID = alias.ID
		case label != current.Name:
			alias, err := s.ResolveAlias(ctx, q, userID, label, categoryID)
			if err != nil {
				return err
			}
			expense.NameID = alias.ID
		}

		expense.UpdatedAt = s.now()
		if err := q.UpdateExpense(ctx, &expense); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.NotFound(msgExpenseNotFound)
			}
			return err
		}

		row, err = q.GetExpense(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, dbError(err)
	}

	s.publishRow(ctx, amqp.ExpenseUpdated, row)
	resp := row.Response(loc)
	return &resp, nil
}

func (s *ExpenseService) AddNote(ctx context.Context, userID, id, content string) (*models.ExpenseResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, utils.Validation("Note content is required.")
	}
	return s.UpdateExpense(ctx, userID, id, models.UpdateExpenseRequest{Note: &content})
}

// DeleteExpense marks the expense deleted. The row stays in the table.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id string) error {
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		if _, err := activeUser(ctx, q, userID); err != nil {
			return err
		}
		ok, err := q.SoftDeleteExpense(ctx, userID, id, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return utils.NotFound(msgExpenseNotFound)
		}
		return nil
	})
	if err != nil {
		return dbError(err)
	}

	publish(ctx, s.publisher, s.logger, amqp.NewExpenseEventMessage(amqp.ExpenseDeleted, id, userID))
	return nil
}

func (s *ExpenseService) publishRow(ctx context.Context, eventType string, row *models.ExpenseRow) {
	msg := amqp.NewExpenseEventMessage(eventType, row.ID, row.UserID)
	msg.Name = row.Name
	msg.Category = row.Category
	msg.Amount = row.Amount.StringFixed(2)
	publish(ctx, s.publisher, s.logger, msg)
}
