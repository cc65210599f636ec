package services

import (
	"context"
	"errors"
	"strings"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/google/uuid"
)

// ResolveAlias returns the user's alias for label. An existing alias is
// sticky: the oldest one wins and categoryID is ignored. Otherwise a new
// alias bound to categoryID is created.
func (s *ExpenseService) ResolveAlias(ctx context.Context, q *repositories.Queries, userID, label, categoryID string) (*models.ExpenseName, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, utils.Validation("Expense name is required.")
	}

	existing, err := q.GetFirstExpenseName(ctx, userID, label)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.createAlias(ctx, q, userID, label, categoryID)
}

// aliasInCategory finds or creates the alias (label, categoryID, user).
// Used when an expense is moved to another category.
func (s *ExpenseService) aliasInCategory(ctx context.Context, q *repositories.Queries, userID, label, categoryID string) (*models.ExpenseName, error) {
	existing, err := q.GetExpenseName(ctx, userID, label, categoryID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return s.createAlias(ctx, q, userID, label, categoryID)
}

func (s *ExpenseService) createAlias(ctx context.Context, q *repositories.Queries, userID, label, categoryID string) (*models.ExpenseName, error) {
	alias := &models.ExpenseName{
		ID:         uuid.NewString(),
		Name:       label,
		CategoryID: categoryID,
		UserID:     userID,
		CreatedAt:  s.now(),
	}
	if err := q.CreateExpenseName(ctx, alias); err != nil {
		return nil, err
	}
	return alias, nil
}
