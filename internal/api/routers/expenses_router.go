package routers

import (
	"net/http"

	"expense_tracker/internal/api/handlers/expenses"
)

func expensesRouter(h *expenses.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /expenses", h.ListExpensesHandler)
	mux.HandleFunc("POST /expenses", h.CreateExpenseHandler)
	mux.HandleFunc("GET /expenses/{id}", h.GetExpenseHandler)
	mux.HandleFunc("PATCH /expenses/{id}", h.UpdateExpenseHandler)
	mux.HandleFunc("PUT /expenses/{id}", h.UpdateExpenseHandler)
	mux.HandleFunc("DELETE /expenses/{id}", h.DeleteExpenseHandler)
	mux.HandleFunc("PATCH /expenses/{id}/note", h.AddNoteHandler)

	return mux
}
