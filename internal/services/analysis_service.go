package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AnalysisService struct {
	store  *repositories.Store
	logger *logrus.Logger
	now    clock
}

func NewAnalysisService(store *repositories.Store, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{store: store, logger: logger, now: time.Now}
}

// PeriodStart returns the start of the window ending at now, with calendar
// boundaries taken in loc. "day" is the last 24 hours; weeks start Monday.
func PeriodStart(period string, now time.Time, loc *time.Location) (time.Time, error) {
	local := now.In(loc)
	y, m, d := local.Date()

	switch period {
	case models.PeriodDay:
		return now.Add(-24 * time.Hour), nil
	case models.PeriodWeek:
		offset := (int(local.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), nil
	case models.PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), nil
	case models.PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	default:
		return time.Time{}, utils.Validation("time_period must be one of: day, week, month, year")
	}
}

// Analyze totals the user's live expenses in the period per category,
// sorted by category name.
func (s *AnalysisService) Analyze(ctx context.Context, userID, period string) (*models.AnalysisResponse, error) {
	user, err := activeUser(ctx, s.store.Queries, userID)
	if err != nil {
		return nil, dbError(err)
	}

	since, err := PeriodStart(period, s.now(), user.Location())
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListExpensesSince(ctx, userID, since)
	if err != nil {
		return nil, dbError(err)
	}

	totals := map[string]decimal.Decimal{}
	for _, row := range rows {
		totals[row.Category] = totals[row.Category].Add(row.Amount)
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := &models.AnalysisResponse{TotalExpenses: make([]models.CategoryTotal, 0, len(names))}
	for _, name := range names {
		resp.TotalExpenses = append(resp.TotalExpenses, models.CategoryTotal{
			Category: name,
			Amount:   json.Number(totals[name].StringFixed(2)),
		})
	}
	return resp, nil
}
