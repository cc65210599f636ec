package categories

import (
	"net/http"

	"expense_tracker/internal/api/handlers"
	"expense_tracker/internal/models"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	categories *services.CategoryService
	logger     *logrus.Logger
}

func NewHandler(categories *services.CategoryService, logger *logrus.Logger) *Handler {
	return &Handler{categories: categories, logger: logger}
}

func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), user.ID)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	category, err := h.categories.CreateCustomCategory(r.Context(), user.ID, req.Name)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, category)
}

func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.categories.DeleteCustomCategory(r.Context(), user.ID, r.PathValue("id")); err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
