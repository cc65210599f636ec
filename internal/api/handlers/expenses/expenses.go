package expenses

import (
	"net/http"

	"expense_tracker/internal/api/handlers"
	"expense_tracker/internal/models"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	expenses *services.ExpenseService
	logger   *logrus.Logger
}

func NewHandler(expenses *services.ExpenseService, logger *logrus.Logger) *Handler {
	return &Handler{expenses: expenses, logger: logger}
}

func (h *Handler) CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), user.ID, req)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	opts, err := handlers.ParseFilterOptions(r.URL.Query())
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}

	expenses, err := h.expenses.ListExpenses(r.Context(), user.ID, opts)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) GetExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	expense, err := h.expenses.GetExpense(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, expense)
}

// UpdateExpenseHandler serves both PATCH and PUT; either applies only the
// fields present in the body.
func (h *Handler) UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateExpenseRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.UpdateExpense(r.Context(), user.ID, r.PathValue("id"), req)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	var req models.NoteRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.AddNote(r.Context(), user.ID, r.PathValue("id"), req.Content)
	if err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	if err := h.expenses.DeleteExpense(r.Context(), user.ID, r.PathValue("id")); err != nil {
		handlers.Fail(w, r, h.logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}
