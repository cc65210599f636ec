package services

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"expense_tracker/pkg/utils"
)

const passwordSpecials = "@$!%*?&"

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 5 || n > 30 {
		return utils.Validation("Username must be between 5 and 30 characters long.")
	}
	return nil
}

func ValidatePassword(password string) error {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	n := utf8.RuneCountInString(password)
	if n < 8 || n > 30 || !lower || !upper || !digit || !special {
		return utils.Validation("Password must be between 8 and 30 characters long and contain at least one lowercase letter, one uppercase letter, one digit, and one special character.")
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return utils.Validation("Invalid email address.")
	}
	return nil
}

func ValidateTimezone(tz string) error {
	if tz == "" {
		return utils.Validation("Timezone is required.")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return utils.Validation("Unknown timezone: " + tz)
	}
	return nil
}

var dateLayouts = []string{
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	"02.01.2006 15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"2006-01-02",
}

// ParseDate reads a day-first date, optionally with a 24h time, in loc.
// RFC 3339 values carry their own offset and ignore loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, utils.Validation("Date is required.")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, utils.Validation("Invalid date format: " + value + ". Use DD-MM-YYYY HH:MM.")
}

// isDateOnly reports whether value has no time-of-day part.
func isDateOnly(value string) bool {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"02-01-2006", "02/01/2006", "02.01.2006", "2006-01-02"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
