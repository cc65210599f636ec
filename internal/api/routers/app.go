package routers

import (
	"net/http"

	"expense_tracker/internal/api/handlers/analysis"
	"expense_tracker/internal/api/handlers/auth"
	"expense_tracker/internal/api/handlers/categories"
	"expense_tracker/internal/api/handlers/expenses"
	mw "expense_tracker/internal/api/middlewares"
	"expense_tracker/internal/config"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Deps are the long-lived collaborators of the HTTP application.
// Mailer and Publisher may be nil.
type Deps struct {
	Config    *config.Config
	Store     *repositories.Store
	Mailer    *utils.Mailer
	Publisher services.ExpensePublisher
	Logger    *logrus.Logger
}

// NewApp wires services, handlers and the middleware chain.
func NewApp(d Deps) http.Handler {
	cfg := d.Config

	userService := services.NewUserService(d.Store, d.Mailer, cfg.FrontendURL, d.Logger)
	authService := services.NewAuthService(d.Store, cfg.JWTSecret, cfg.AccessTokenExpire, d.Logger)
	categoryService := services.NewCategoryService(d.Store, cfg.CategoryCacheTTL, d.Logger)
	expenseService := services.NewExpenseService(d.Store, categoryService, d.Publisher, d.Logger)
	analysisService := services.NewAnalysisService(d.Store, d.Logger)

	var googleService *services.GoogleAuthService
	if cfg.GoogleEnabled() {
		googleService = services.NewGoogleAuthService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, authService, userService, d.Logger)
	}

	router := MainRouter(Handlers{
		Auth:       auth.NewHandler(userService, authService, googleService, cfg.CookieSecure, cfg.FrontendURL, d.Logger),
		Expenses:   expenses.NewHandler(expenseService, d.Logger),
		Categories: categories.NewHandler(categoryService, d.Logger),
		Analysis:   analysis.NewHandler(analysisService, d.Logger),
	}, d.Store.DB(), d.Logger)

	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware(authService, d.Logger), PublicPaths...)

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	middlewares := []utils.Middleware{
		middleware.RequestID,
		middleware.RealIP,
		mw.RequestLogger(d.Logger),
		middleware.Recoverer,
		mw.SecurityHeaders,
		corsMiddleware,
	}
	if cfg.RequestTimeout > 0 {
		middlewares = append(middlewares, middleware.Timeout(cfg.RequestTimeout))
	}
	middlewares = append(middlewares, jwtMiddleware)

	return utils.ApplyMiddlewares(router, middlewares...)
}
