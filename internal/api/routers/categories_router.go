package routers

import (
	"net/http"

	"expense_tracker/internal/api/handlers/analysis"
	"expense_tracker/internal/api/handlers/categories"
)

func categoriesRouter(h *categories.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /categories", h.ListCategoriesHandler)
	mux.HandleFunc("POST /categories", h.CreateCategoryHandler)
	mux.HandleFunc("DELETE /categories/{id}", h.DeleteCategoryHandler)

	return mux
}

func analysisRouter(h *analysis.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /analysis/{time_period}", h.AnalysisHandler)

	return mux
}
