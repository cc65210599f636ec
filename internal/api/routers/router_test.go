package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	mw "expense_tracker/internal/api/middlewares"
	"expense_tracker/internal/config"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/repositories/sqlconnect"
	"expense_tracker/pkg/utils"

	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Detail json.RawMessage `json:"detail"`
}

type APISuite struct {
	suite.Suite
	app     http.Handler
	cookies []*http.Cookie
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	ctx := context.Background()
	logger := utils.NewNopLogger()

	cfg := &config.Config{
		DBDriver:          "sqlite",
		SQLiteDBPath:      filepath.Join(s.T().TempDir(), "api.db"),
		JWTSecret:         "0123456789abcdef0123456789abcdef",
		AccessTokenExpire: time.Hour,
		CORSOrigins:       []string{"http://localhost:3000"},
		FrontendURL:       "http://localhost:3000",
		CategoryCacheTTL:  time.Minute,
		RequestTimeout:    5 * time.Second,
	}
	s.Require().NoError(sqlconnect.RunMigrations(cfg))
	db, dialect, err := sqlconnect.ConnectDb(ctx, cfg, logger)
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })

	s.app = NewApp(Deps{Config: cfg, Store: repositories.NewStore(db, dialect), Logger: logger})
	s.cookies = nil
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		s.Require().NoError(json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) detail(rec *httptest.ResponseRecorder, dst any) {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	s.Require().NoError(json.Unmarshal(env.Detail, dst), string(env.Detail))
}

func (s *APISuite) login(username string) {
	rec := s.do(http.MethodPost, "/auth/register", models.RegisterUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Str0ng!pass",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/login", models.LoginRequest{Username: username, Password: "Str0ng!pass"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.cookies = rec.Result().Cookies()
}

func (s *APISuite) createExpense(body map[string]any) models.ExpenseResponse {
	rec := s.do(http.MethodPost, "/expenses", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var out models.ExpenseResponse
	s.detail(rec, &out)
	return out
}

func (s *APISuite) TestHealthz() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"detail":{"status":"ok"}}`, rec.Body.String())
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *APISuite) TestUnauthenticated() {
	for _, path := range []string{"/expenses", "/categories", "/analysis/week", "/auth/me"} {
		rec := s.do(http.MethodGet, path, nil)
		s.Equal(http.StatusUnauthorized, rec.Code, path)
		s.JSONEq(`{"detail":{"error":"Not authenticated"}}`, rec.Body.String())
	}
}

func (s *APISuite) TestLoginSetsSplitCookies() {
	s.login("alice_user")

	byName := map[string]*http.Cookie{}
	for _, c := range s.cookies {
		byName[c.Name] = c
	}
	s.Require().Contains(byName, mw.AccessTokenCookie)
	s.Require().Contains(byName, mw.TokenSignatureCookie)
	s.False(byName[mw.AccessTokenCookie].HttpOnly)
	s.True(byName[mw.TokenSignatureCookie].HttpOnly)

	rec := s.do(http.MethodGet, "/auth/me", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var me models.User
	s.detail(rec, &me)
	s.Equal("alice_user", me.Username)
	s.NotContains(rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/auth/logout", nil)
	s.Equal(http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		s.Empty(c.Value)
		s.Negative(c.MaxAge)
	}
}

func (s *APISuite) TestLoginFailures() {
	s.login("alice_user")
	s.cookies = nil

	rec := s.do(http.MethodPost, "/auth/login", models.LoginRequest{Username: "alice_user", Password: "Wr0ng!pass"})
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.JSONEq(`{"detail":{"error":"Incorrect username or password"}}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/register", models.RegisterUserRequest{
		Username: "alice_user", Email: "again@example.com", Password: "Str0ng!pass",
	})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/auth/register", `{"username":"bob_user","role":"admin"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestExpenseLifecycle() {
	s.login("alice_user")

	created := s.createExpense(map[string]any{
		"name": "Coffee", "amount": 3.5, "date": "15-01-2025 08:30", "category": "Food",
	})
	s.Equal("Food", created.Category)
	s.Equal(json.Number("3.50"), created.Amount)
	s.Nil(created.Note)

	rec := s.do(http.MethodGet, "/expenses/"+created.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"amount":3.50`)
	s.Contains(rec.Body.String(), `"note":null`)

	rec = s.do(http.MethodPatch, "/expenses/"+created.ID, map[string]any{"amount": "4.25"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated models.ExpenseResponse
	s.detail(rec, &updated)
	s.Equal(json.Number("4.25"), updated.Amount)

	rec = s.do(http.MethodPut, "/expenses/"+created.ID, map[string]any{"category": "Drinks"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.detail(rec, &updated)
	s.Equal("Drinks", updated.Category)

	rec = s.do(http.MethodPatch, "/expenses/"+created.ID+"/note", map[string]any{"content": "oat milk"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.detail(rec, &updated)
	s.Require().NotNil(updated.Note)
	s.Equal("oat milk", *updated.Note)

	rec = s.do(http.MethodDelete, "/expenses/"+created.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/expenses/"+created.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"detail":{"error":"Expense not found"}}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/expenses", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"detail":[]}`, rec.Body.String())
}

func (s *APISuite) TestExpenseValidation() {
	s.login("alice_user")

	rec := s.do(http.MethodPost, "/expenses", map[string]any{
		"name": "Coffee", "amount": 0, "date": "15-01-2025", "category": "Food",
	})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/expenses", map[string]any{
		"name": "Coffee", "amount": 1, "date": "15-01-2025", "category": "Food", "user_id": "someone",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/expenses", "")
	s.Equal(http.StatusBadRequest, rec.Code)

	for _, query := range []string{"limit=abc", "limit=0", "limit=101", "offset=-1", "sort_by=name", "min_amount=x"} {
		rec = s.do(http.MethodGet, "/expenses?"+query, nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code, query)
	}

	rec = s.do(http.MethodDelete, "/expenses/does-not-exist", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestListQuery() {
	s.login("alice_user")
	s.createExpense(map[string]any{"name": "Coffee", "amount": 3, "date": "10-01-2025 08:00", "category": "Food"})
	s.createExpense(map[string]any{"name": "Bus", "amount": 2, "date": "11-01-2025 08:00", "category": "Transport"})
	s.createExpense(map[string]any{"name": "Flight", "amount": 200, "date": "12-01-2025 08:00", "category": "Travel"})

	rec := s.do(http.MethodGet, "/expenses?sort_by=amount&order_by=asc&limit=2", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list []models.ExpenseResponse
	s.detail(rec, &list)
	s.Require().Len(list, 2)
	s.Equal("Bus", list[0].Name)
	s.Equal("Coffee", list[1].Name)

	rec = s.do(http.MethodGet, "/expenses?category=TRANS", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.detail(rec, &list)
	s.Require().Len(list, 1)
	s.Equal("Bus", list[0].Name)

	rec = s.do(http.MethodGet, "/expenses?start_date=11-01-2025&end_date=12-01-2025&min_amount=100", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.detail(rec, &list)
	s.Require().Len(list, 1)
	s.Equal("Flight", list[0].Name)
}

func (s *APISuite) TestCategories() {
	s.login("alice_user")

	rec := s.do(http.MethodPost, "/categories", models.CreateCategoryRequest{Name: "Pets"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created models.CategoryResponse
	s.detail(rec, &created)
	s.True(created.IsCustom)

	rec = s.do(http.MethodPost, "/categories", models.CreateCategoryRequest{Name: "Pets"})
	s.Equal(http.StatusConflict, rec.Code)
	rec = s.do(http.MethodPost, "/categories", models.CreateCategoryRequest{Name: "Food"})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/categories", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var list []models.CategoryResponse
	s.detail(rec, &list)
	s.Len(list, 11)

	rec = s.do(http.MethodDelete, "/categories/"+created.ID, nil)
	s.Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodDelete, "/categories/"+created.ID, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestAnalysis() {
	s.login("alice_user")

	rec := s.do(http.MethodGet, "/analysis/week", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"detail":{"total_expenses":[]}}`, rec.Body.String())

	now := time.Now().UTC().Add(-time.Hour).Format(models.DisplayTimeLayout)
	s.createExpense(map[string]any{"name": "Lunch", "amount": 12.5, "date": now, "category": "Food"})
	s.createExpense(map[string]any{"name": "Snack", "amount": 2, "date": now, "category": "Food"})

	rec = s.do(http.MethodGet, "/analysis/day", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"detail":{"total_expenses":[{"category":"Food","amount":14.50}]}}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/analysis/decade", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *APISuite) TestAdminRoutes() {
	s.login("alice_user")

	rec := s.do(http.MethodGet, "/admin/users", nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/admin/users/whoever", nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestUpdateMe() {
	s.login("alice_user")

	rec := s.do(http.MethodPatch, "/users/me", map[string]any{"timezone": "Not/AZone"})
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPatch, "/users/me", map[string]any{"username": "alice_renamed"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var me models.User
	s.detail(rec, &me)
	s.Equal("alice_renamed", me.Username)
}

func (s *APISuite) TestGoogleDisabled() {
	rec := s.do(http.MethodGet, "/auth/google/login", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/expenses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)

	s.Equal("http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	s.Equal("true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
