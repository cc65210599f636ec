package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

const msgInvalidCredentials = "Incorrect username or password"

type AuthService struct {
	store    *repositories.Store
	secret   []byte
	tokenTTL time.Duration
	logger   *logrus.Logger
}

func NewAuthService(store *repositories.Store, secret string, tokenTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{store: store, secret: []byte(secret), tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Authenticate checks a username (or email) and password.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, utils.Unauthorized(msgInvalidCredentials)
	}

	user, err := s.store.GetUserByLogin(ctx, login)
	if errors.Is(err, repositories.ErrNotFound) {
		user, err = s.store.GetUserByLogin(ctx, strings.ToLower(login))
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, utils.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, dbError(err)
	}
	if user.IsDeleted {
		return nil, utils.Unauthorized(msgInvalidCredentials)
	}

	if err := utils.VerifyPassword(password, user.Password); err != nil {
		if !errors.Is(err, utils.ErrPasswordMismatch) {
			s.logger.WithFields(logrus.Fields{"error": err.Error(), "user_id": user.ID}).Error("stored password hash is unreadable")
		}
		return nil, utils.Unauthorized(msgInvalidCredentials)
	}
	return user, nil
}

// IssueToken signs an access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := utils.SignToken(s.secret, user.ID, user.Role(), s.tokenTTL)
	if err != nil {
		return "", utils.Internal("could not create login token", err)
	}
	return token, nil
}

// CurrentUser resolves the user behind a token. The user must still exist
// and not be deleted.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseToken(s.secret, token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, utils.Unauthorized("Token expired")
		}
		return nil, utils.Unauthorized("Could not validate credentials")
	}

	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && user.IsDeleted) {
		return nil, utils.Unauthorized("Could not validate credentials")
	}
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}

// RequireRole fails with 403 unless user holds role. Admins hold every role.
func RequireRole(user *models.User, role string) (*models.User, error) {
	if user == nil {
		return nil, utils.Unauthorized("Not authenticated")
	}
	if user.IsAdmin || role == models.RoleUser {
		return user, nil
	}
	return nil, utils.Forbidden("Insufficient permissions")
}

// SignState issues a short-lived token used as the OAuth state parameter.
func (s *AuthService) SignState() (string, error) {
	nonce, err := utils.GenerateRandomString(16)
	if err != nil {
		return "", utils.Internal("could not create state", err)
	}
	return utils.SignToken(s.secret, "oauth-state:"+nonce, "", 10*time.Minute)
}

func (s *AuthService) VerifyState(state string) error {
	claims, err := utils.ParseToken(s.secret, state)
	if err != nil || !strings.HasPrefix(claims.Subject, "oauth-state:") {
		return utils.BadRequest("Invalid OAuth state")
	}
	return nil
}
