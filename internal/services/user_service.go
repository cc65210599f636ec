package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	store  *repositories.Store
	mailer *utils.Mailer
	appURL string
	logger *logrus.Logger
	now    clock
}

func NewUserService(store *repositories.Store, mailer *utils.Mailer, appURL string, logger *logrus.Logger) *UserService {
	return &UserService{store: store, mailer: mailer, appURL: appURL, logger: logger, now: time.Now}
}

// Register creates a regular account and sends the welcome email.
// A failed email does not fail the registration.
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	user, err := s.CreateUser(ctx, req, false)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(user.Email, user.Username, s.appURL); err != nil {
		s.logger.WithFields(logrus.Fields{
			"error":   err.Error(),
			"user_id": user.ID,
		}).Warn("failed to send welcome email")
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, req models.RegisterUserRequest, isAdmin bool) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := ValidateTimezone(req.Timezone); err != nil {
		return nil, err
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.Internal("error hashing password", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPwd,
		Timezone:  req.Timezone,
		IsAdmin:   isAdmin,
		CreatedAt: repositories.DBTime(s.now()),
	}

	err = s.store.WithTx(ctx, func(q *repositories.Queries) error {
		if err := s.ensureUnique(ctx, q, "", user.Username, user.Email); err != nil {
			return err
		}
		return q.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, dbError(err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *UserService) ensureUnique(ctx context.Context, q *repositories.Queries, selfID, username, email string) error {
	for _, login := range []string{username, email} {
		existing, err := q.GetUserByLogin(ctx, login)
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if existing.ID != selfID {
			return utils.Conflict("Username or email already exists", nil)
		}
	}
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := activeUser(ctx, s.store.Queries, id)
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}

// Update applies the non-nil fields of req with the same rules as registration.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		var err error
		user, err = activeUser(ctx, q, id)
		if err != nil {
			return err
		}

		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if err := ValidateUsername(username); err != nil {
				return err
			}
			user.Username = username
		}
		if req.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*req.Email))
			if err := ValidateEmail(email); err != nil {
				return err
			}
			user.Email = email
		}
		if req.Timezone != nil {
			if err := ValidateTimezone(*req.Timezone); err != nil {
				return err
			}
			user.Timezone = *req.Timezone
		}
		if req.Password != nil {
			if err := ValidatePassword(*req.Password); err != nil {
				return err
			}
			hashed, err := utils.HashPassword(*req.Password)
			if err != nil {
				return utils.Internal("error hashing password", err)
			}
			user.Password = hashed
		}

		if err := s.ensureUnique(ctx, q, user.ID, user.Username, user.Email); err != nil {
			return err
		}
		if err := q.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return utils.NotFound("User not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return users, nil
}

// Delete logically deletes a user. Their data stays in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.SoftDeleteUser(ctx, id)
	if err != nil {
		return dbError(err)
	}
	if !ok {
		return utils.NotFound("User not found")
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

// FindOrCreateExternal resolves a federated identity. A verified email that
// matches an existing account links that account; otherwise a new account
// is created with the email as username and an unusable random password.
func (s *UserService) FindOrCreateExternal(ctx context.Context, externalID, email string, emailVerified bool) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user *models.User
	err := s.store.WithTx(ctx, func(q *repositories.Queries) error {
		var err error
		user, err = q.GetUserByExternalID(ctx, externalID)
		if err == nil {
			if user.IsDeleted {
				return utils.Unauthorized("Account is deleted")
			}
			return nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		if emailVerified && email != "" {
			user, err = q.GetUserByEmail(ctx, email)
			if err == nil {
				if user.IsDeleted {
					return utils.Unauthorized("Account is deleted")
				}
				user.ExternalID = sql.NullString{String: externalID, Valid: true}
				return q.UpdateUser(ctx, user)
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}
		}

		random, err := utils.GenerateRandomString(32)
		if err != nil {
			return err
		}
		hashed, err := utils.HashPassword(random)
		if err != nil {
			return err
		}
		user = &models.User{
			ID:         uuid.NewString(),
			Username:   email,
			Email:      email,
			Password:   hashed,
			Timezone:   "UTC",
			ExternalID: sql.NullString{String: externalID, Valid: true},
			CreatedAt:  repositories.DBTime(s.now()),
		}
		return q.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, dbError(err)
	}
	return user, nil
}
