package models

import (
	"database/sql"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         string         `json:"id" db:"id"`
	Username   string         `json:"username" db:"username"`
	Email      string         `json:"email" db:"email"`
	Password   string         `json:"-" db:"password_hash"`
	Timezone   string         `json:"timezone" db:"timezone"`
	IsAdmin    bool           `json:"is_admin" db:"is_admin"`
	IsDeleted  bool           `json:"-" db:"is_deleted"`
	ExternalID sql.NullString `json:"-" db:"external_id"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Location returns the user's time zone, UTC if it cannot be loaded.
func (u *User) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Timezone string `json:"timezone,omitempty"`
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
