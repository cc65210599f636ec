package middlewares

import (
	"context"
	"net/http"
	"strings"

	"expense_tracker/internal/models"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	AccessTokenCookie    = "access_token"
	TokenSignatureCookie = "token_signature"
)

var userKey = utils.ContextKey("user")

// JWTMiddleware authenticates the request and stores the user in the
// context. The token is read from the split cookies first, then from an
// Authorization: Bearer header.
func JWTMiddleware(auth *services.AuthService, logger *logrus.Logger) utils.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				utils.WriteError(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			user, err := auth.CurrentUser(r.Context(), token)
			if err != nil {
				utils.WriteAppError(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	hp, errHP := r.Cookie(AccessTokenCookie)
	sig, errSig := r.Cookie(TokenSignatureCookie)
	if errHP == nil && errSig == nil && hp.Value != "" && sig.Value != "" {
		return utils.JoinToken(hp.Value, sig.Value)
	}

	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the user set by JWTMiddleware.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// RequireRole rejects authenticated users that do not hold role.
func RequireRole(role string, logger *logrus.Logger) utils.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := CurrentUser(r.Context())
			if _, err := services.RequireRole(user, role); err != nil {
				utils.WriteAppError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
