package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"expense_tracker/internal/api/middlewares"
	"expense_tracker/internal/models"
	"expense_tracker/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object into dst, rejecting unknown fields.
// On failure it writes a 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	defer r.Body.Close()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.WriteError(w, "request body is required", http.StatusBadRequest)
			return false
		}
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return false
	}
	if decoder.More() {
		utils.WriteError(w, "request body must contain a single JSON object", http.StatusBadRequest)
		return false
	}
	return true
}

// RequireUser returns the authenticated user or writes a 401.
func RequireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middlewares.CurrentUser(r.Context())
	if !ok {
		utils.WriteError(w, "Not authenticated", http.StatusUnauthorized)
	}
	return user, ok
}

// Fail writes err as the JSON error envelope.
func Fail(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	utils.WriteAppError(w, r, logger, err)
}

// ParseFilterOptions reads list query parameters. Malformed numbers are
// validation errors; semantic checks happen in the service.
func ParseFilterOptions(query url.Values) (models.FilterOptions, error) {
	opts := models.DefaultFilterOptions()
	opts.ExpenseName = query.Get("expense_name")
	opts.Category = query.Get("category")
	opts.StartDate = query.Get("start_date")
	opts.EndDate = query.Get("end_date")
	opts.TimePeriod = query.Get("time_period")
	if v := query.Get("sort_by"); v != "" {
		opts.SortBy = v
	}
	if v := query.Get("order_by"); v != "" {
		opts.OrderBy = v
	}

	var err error
	if opts.MinAmount, err = decimalParam(query, "min_amount"); err != nil {
		return opts, err
	}
	if opts.MaxAmount, err = decimalParam(query, "max_amount"); err != nil {
		return opts, err
	}
	if v := query.Get("offset"); v != "" {
		if opts.Offset, err = strconv.Atoi(v); err != nil {
			return opts, utils.Validation("offset must be an integer")
		}
	}
	if v := query.Get("limit"); v != "" {
		if opts.Limit, err = strconv.Atoi(v); err != nil {
			return opts, utils.Validation("limit must be an integer")
		}
		if opts.Limit == 0 {
			return opts, utils.Validation("limit must be between 1 and 100")
		}
	}
	return opts, nil
}

func decimalParam(query url.Values, name string) (*decimal.Decimal, error) {
	v := query.Get(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, utils.Validation(name + " must be a number")
	}
	return &d, nil
}
