// Package user resolves bank clients and their roles.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/bankbot/core/logger"
)

// Role is the permission tier of a client.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
)

// IsManager reports whether r grants manager actions.
func (r Role) IsManager() bool {
	switch r {
	case RoleManager:
		return true
	case RoleUser:
		return false
	}
	return false
}

// User is a registered bank client.
type User struct {
	ID         int64  `db:"id"`
	TelegramID int64  `db:"telegram_id"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	Role       Role   `db:"role"`
}

// Repository loads users from Postgres.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open connection pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByTelegramID returns the user bound to a Telegram id, or nil when unknown.
func (r *Repository) GetUserByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, first_name, last_name, role FROM users WHERE telegram_id = $1`, tgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", tgID, err)
	}
	return &u, nil
}

// Lookup is the part of the repository the resolver needs.
type Lookup interface {
	GetUserByTelegramID(ctx context.Context, tgID int64) (*User, error)
}

// Resolver decides the role of a Telegram user.
type Resolver struct {
	users   Lookup
	adminID int64
}

// NewResolver builds a resolver; adminID is always treated as a manager.
func NewResolver(users Lookup, adminID int64) *Resolver {
	return &Resolver{users: users, adminID: adminID}
}

// RoleOf returns the role for tgID. Unknown users are regular users; lookup
// failures degrade to the regular role as well.
func (r *Resolver) RoleOf(ctx context.Context, tgID int64) Role {
	if r.adminID != 0 && tgID == r.adminID {
		return RoleManager
	}
	if r.users == nil {
		return RoleUser
	}
	u, err := r.users.GetUserByTelegramID(ctx, tgID)
	if err != nil {
		logger.Warn(ctx, "service.users", "user.lookup",
			slog.String("status", "fail"),
			slog.Int64("user_id", tgID),
			slog.String("err", err.Error()),
		)
		return RoleUser
	}
	if u == nil {
		return RoleUser
	}
	if u.Role.IsManager() {
		return RoleManager
	}
	return RoleUser
}
