package routers

import (
	"net/http"

	"expense_tracker/internal/api/handlers/auth"
	mw "expense_tracker/internal/api/middlewares"
	"expense_tracker/internal/models"

	"github.com/sirupsen/logrus"
)

func authRouter(h *auth.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", h.RegisterHandler)
	mux.HandleFunc("POST /auth/login", h.LoginHandler)
	mux.HandleFunc("POST /auth/logout", h.LogoutHandler)
	mux.HandleFunc("GET /auth/me", h.MeHandler)

	mux.HandleFunc("GET /auth/google/login", h.GoogleLoginHandler)
	mux.HandleFunc("GET /auth/google/callback", h.GoogleCallbackHandler)

	return mux
}

func usersRouter(h *auth.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users/me", h.MeHandler)
	mux.HandleFunc("PATCH /users/me", h.UpdateMeHandler)

	return mux
}

func adminRouter(h *auth.Handler, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /admin/users", h.ListUsersHandler)
	mux.HandleFunc("DELETE /admin/users/{id}", h.DeleteUserHandler)

	return mw.RequireRole(models.RoleAdmin, logger)(mux)
}
