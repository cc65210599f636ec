package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/cache"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const globalCategoriesKey = "global"

type CategoryService struct {
	store  *repositories.Store
	cache  *cache.LRUCache[[]models.Category]
	logger *logrus.Logger
	now    clock
}

func NewCategoryService(store *repositories.Store, cacheTTL time.Duration, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		cache:  cache.NewLRUCache[[]models.Category](1, cacheTTL),
		logger: logger,
		now:    time.Now,
	}
}

// ResolveCategory maps a category name to its ExpenseCategory link for the
// user: a global category first, then a live custom category of the user,
// and otherwise a new custom category. Names match exactly.
func (s *CategoryService) ResolveCategory(ctx context.Context, q *repositories.Queries, userID, name string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.Validation("Category is required.")
	}

	ec, err := q.GetGlobalExpenseCategory(ctx, name)
	if err == nil {
		return ec, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	ec, err = q.GetCustomExpenseCategory(ctx, userID, name)
	if err == nil {
		return ec, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	return s.createCustom(ctx, q, userID, name)
}

// createCustom inserts a custom category and its link, or revives a
// logically deleted one of the same name. A lost race surfaces as a
// conflict from the unique (user_id, name) index or the revive guard.
func (s *CategoryService) createCustom(ctx context.Context, q *repositories.Queries, userID, name string) (*models.ExpenseCategory, error) {
	existing, err := q.GetCustomCategoryByName(ctx, userID, name)
	switch {
	case err == nil && existing.IsDeleted:
		revived, err := q.ReviveCustomCategory(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if !revived {
			return nil, utils.Conflict(msgDatabaseConflict, nil)
		}
		ec, err := q.GetExpenseCategoryByCustomID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(logrus.Fields{"user_id": userID, "category_id": existing.ID}).Info("custom category restored")
		return ec, nil
	case err == nil:
		return nil, utils.Conflict("Category already exists", nil)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	custom := &models.CustomCategory{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := q.CreateCustomCategory(ctx, custom); err != nil {
		return nil, err
	}

	ec := &models.ExpenseCategory{
		ID:               uuid.NewString(),
		Name:             name,
		CustomCategoryID: sql.NullString{String: custom.ID, Valid: true},
	}
	if err := q.CreateExpenseCategory(ctx, ec); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "category_id": custom.ID}).Info("custom category created")
	return ec, nil
}

// CreateCustomCategory is the explicit endpoint. Unlike ResolveCategory it
// refuses names that already resolve.
func (s *CategoryService) CreateCustomCategory(ctx context.Context, userID, name string) (*models.CategoryResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.Validation("Category name is required.")
	}

	var resp *models.CategoryResponse
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		if _, err := activeUser(ctx, q, userID); err != nil {
			return err
		}

		global, err := q.GlobalCategoryExists(ctx, name)
		if err != nil {
			return err
		}
		if global {
			return utils.Conflict("Category already exists", nil)
		}

		ec, err := s.createCustom(ctx, q, userID, name)
		if err != nil {
			return err
		}
		resp = &models.CategoryResponse{ID: ec.CustomCategoryID.String, Name: ec.Name, IsCustom: true}
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}
	return resp, nil
}

// ListCategories returns the global categories followed by the user's
// live custom categories.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]models.CategoryResponse, error) {
	if _, err := activeUser(ctx, s.store.Queries, userID); err != nil {
		return nil, dbError(err)
	}

	globals, err := s.globalCategories(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	customs, err := s.store.ListCustomCategories(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]models.CategoryResponse, 0, len(globals)+len(customs))
	for _, c := range globals {
		out = append(out, models.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	for _, c := range customs {
		out = append(out, models.CategoryResponse{ID: c.ID, Name: c.Name, IsCustom: true})
	}
	return out, nil
}

func (s *CategoryService) globalCategories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(globalCategoriesKey); ok {
		return cached, nil
	}
	globals, err := s.store.ListGlobalCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(globalCategoriesKey, globals)
	return globals, nil
}

// DeleteCustomCategory logically deletes a custom category. Expenses that
// already use it keep their category.
func (s *CategoryService) DeleteCustomCategory(ctx context.Context, userID, id string) error {
	ok, err := s.store.SoftDeleteCustomCategory(ctx, userID, id)
	if err != nil {
		return dbError(err)
	}
	if !ok {
		return utils.NotFound("Category not found")
	}
	return nil
}
