package services

import (
	"context"
	"errors"
	"time"

	"expense_tracker/internal/amqp"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/repositories/sqlconnect"
	"expense_tracker/pkg/utils"

	"github.com/sirupsen/logrus"
)

const msgDatabaseConflict = "Database conflict occurred"

// ExpensePublisher receives events after an expense change is committed.
type ExpensePublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// dbError converts a repository error into an *AppError. Errors that are
// already *AppError pass through.
func dbError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if sqlconnect.IsConflict(err) {
		return utils.Conflict(msgDatabaseConflict, err)
	}
	return utils.Internal("internal server error", err)
}

// activeUser loads a user that exists and is not logically deleted.
func activeUser(ctx context.Context, q *repositories.Queries, userID string) (*models.User, error) {
	user, err := q.GetUserByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) || (err == nil && user.IsDeleted) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func publish(ctx context.Context, publisher ExpensePublisher, logger *logrus.Logger, msg *amqp.ExpenseEventMessage) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishExpenseEvent(ctx, msg); err != nil {
		logger.WithFields(logrus.Fields{
			"error":      err.Error(),
			"type":       msg.Type,
			"expense_id": msg.ExpenseID,
		}).Warn("failed to publish expense event")
	}
}

type clock func() time.Time
