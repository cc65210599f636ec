package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"expense_tracker/internal/config"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/repositories/sqlconnect"
	"expense_tracker/internal/services"
	"expense_tracker/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	auth  *services.AuthService
	users *services.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := utils.NewNopLogger()

	cfg := &config.Config{DBDriver: "sqlite", SQLiteDBPath: filepath.Join(t.TempDir(), "mw.db")}
	require.NoError(t, sqlconnect.RunMigrations(cfg))
	db, dialect, err := sqlconnect.ConnectDb(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repositories.NewStore(db, dialect)
	return &fixture{
		auth:  services.NewAuthService(store, "0123456789abcdef0123456789abcdef", time.Hour, logger),
		users: services.NewUserService(store, nil, "", logger),
	}
}

func (f *fixture) user(t *testing.T, username string, admin bool) (*models.User, string) {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), models.RegisterUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Str0ng!pass",
	}, admin)
	require.NoError(t, err)
	token, err := f.auth.IssueToken(user)
	require.NoError(t, err)
	return user, token
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(user.Username))
}

func TestJWTMiddleware(t *testing.T) {
	f := newFixture(t)
	user, token := f.user(t, "alice_user", false)
	handler := JWTMiddleware(f.auth, utils.NewNopLogger())(http.HandlerFunc(whoAmI))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":{"error":"Not authenticated"}}`, rec.Body.String())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice_user", rec.Body.String())
	})

	t.Run("split cookies", func(t *testing.T) {
		hp, sig, err := utils.SplitToken(token)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: hp})
		req.AddCookie(&http.Cookie{Name: TokenSignatureCookie, Value: sig})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("signature cookie missing", func(t *testing.T) {
		hp, _, err := utils.SplitToken(token)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: hp})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, f.users.Delete(context.Background(), user.ID))
		req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	f := newFixture(t)
	_, userToken := f.user(t, "plain_user", false)
	_, adminToken := f.user(t, "admin_user", true)
	logger := utils.NewNopLogger()

	handler := utils.ApplyMiddlewares(http.HandlerFunc(whoAmI),
		JWTMiddleware(f.auth, logger),
		RequireRole(models.RoleAdmin, logger),
	)

	for token, want := range map[string]int{userToken: http.StatusForbidden, adminToken: http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}

func TestMiddlewaresExcludePaths(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	handler := MiddlewaresExcludePaths(deny, "/auth/login", "/healthz")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := map[string]int{
		"/auth/login":  http.StatusOK,
		"/healthz":     http.StatusOK,
		"/auth/me":     http.StatusUnauthorized,
		"/auth/login/": http.StatusUnauthorized,
	}
	for path, want := range tests {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "https://example.com/", nil))
	assert.Equal(t, hstsValue, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequestLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	handler := utils.ApplyMiddlewares(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), middleware.RequestID, RequestLogger(logger))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/expenses/42", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "/expenses/42", entry.Data["path"])
	assert.NotEmpty(t, entry.Data["request_id"])
}
