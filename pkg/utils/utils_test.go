package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.Len(t, strings.Split(hash, "."), 2)

	assert.NoError(t, VerifyPassword("Str0ng!pass", hash))
	assert.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)

	other, err := HashPassword("Str0ng!pass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ between hashes")
}

func TestVerifyPasswordLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("Legacy1!pw"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword("Legacy1!pw", string(legacy)))
	assert.ErrorIs(t, VerifyPassword("nope", string(legacy)), ErrPasswordMismatch)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.Error(t, VerifyPassword("x", "not-a-hash"))
	assert.Error(t, VerifyPassword("x", "!!!.???"))
}

func TestHashPasswordBlank(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken(secret, "user-1", "admin", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := SignToken(secret, "user-1", "user", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	valid, err := SignToken(secret, "user-1", "user", time.Minute)
	require.NoError(t, err)
	_, err = ParseToken([]byte("another-secret-another-secret-xx"), valid)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken(secret, "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSplitAndJoinToken(t *testing.T) {
	token, err := SignToken(secret, "user-1", "user", time.Minute)
	require.NoError(t, err)

	headerPayload, signature, err := SplitToken(token)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(headerPayload, "."))
	assert.NotContains(t, signature, ".")
	assert.Equal(t, token, JoinToken(headerPayload, signature))

	_, _, err = SplitToken("only.two")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestStatusOf(t *testing.T) {
	status, msg := StatusOf(fmt.Errorf("wrapped: %w", NotFound("Expense not found")))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Expense not found", msg)

	status, msg = StatusOf(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", msg)

	cause := errors.New("duplicate")
	conflict := Conflict("Database conflict occurred", cause)
	assert.ErrorIs(t, conflict, cause)
	assert.Equal(t, http.StatusConflict, conflict.Status)
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "User not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":{"error":"User not found"}}`, rec.Body.String())
}

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "abc", body["detail"]["id"])
}

func TestWriteAppErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	WriteAppError(rec, req, NewNopLogger(), Internal("internal server error", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestApplyMiddlewaresOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := ApplyMiddlewares(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(15)
	require.NoError(t, err)
	assert.Len(t, s, 15)

	other, err := GenerateRandomString(15)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestNilMailerIsNoop(t *testing.T) {
	m := NewMailer("", 587, "", "", NewNopLogger())
	assert.Nil(t, m)
	assert.NoError(t, m.SendWelcomeEmail("a@b.c", "someone", "http://localhost"))
}
