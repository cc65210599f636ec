package routers

import (
	"database/sql"
	"net/http"

	"expense_tracker/internal/api/handlers"
	"expense_tracker/internal/api/handlers/analysis"
	"expense_tracker/internal/api/handlers/auth"
	"expense_tracker/internal/api/handlers/categories"
	"expense_tracker/internal/api/handlers/expenses"

	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth       *auth.Handler
	Expenses   *expenses.Handler
	Categories *categories.Handler
	Analysis   *analysis.Handler
}

// PublicPaths are served without authentication.
var PublicPaths = []string{
	"/healthz",
	"/auth/register",
	"/auth/login",
	"/auth/logout",
	"/auth/google/login",
	"/auth/google/callback",
}

func MainRouter(h Handlers, db *sql.DB, logger *logrus.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handlers.HealthHandler(db))

	aRouter := authRouter(h.Auth)
	mux.Handle("/auth/", aRouter)

	uRouter := usersRouter(h.Auth)
	mux.Handle("/users/", uRouter)

	adRouter := adminRouter(h.Auth, logger)
	mux.Handle("/admin/", adRouter)

	eRouter := expensesRouter(h.Expenses)
	mux.Handle("/expenses", eRouter)
	mux.Handle("/expenses/", eRouter)

	cRouter := categoriesRouter(h.Categories)
	mux.Handle("/categories", cRouter)
	mux.Handle("/categories/", cRouter)

	anRouter := analysisRouter(h.Analysis)
	mux.Handle("/analysis/", anRouter)

	return mux
}
