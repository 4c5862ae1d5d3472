package user

import (
	"context"
	"errors"
	"testing"
)

type lookupFunc func(ctx context.Context, tgID int64) (*User, error)

func (f lookupFunc) GetUserByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	return f(ctx, tgID)
}

func TestRoleOf(t *testing.T) {
	t.Parallel()

	users := lookupFunc(func(_ context.Context, id int64) (*User, error) {
		switch id {
		case 10:
			return &User{TelegramID: 10, Role: RoleManager}, nil
		case 11:
			return &User{TelegramID: 11, Role: RoleUser}, nil
		case 13:
			return nil, errors.New("db down")
		}
		return nil, nil
	})
	r := NewResolver(users, 1)
	ctx := context.Background()

	cases := map[int64]Role{
		1:  RoleManager,
		10: RoleManager,
		11: RoleUser,
		12: RoleUser,
		13: RoleUser,
	}
	for id, want := range cases {
		if got := r.RoleOf(ctx, id); got != want {
			t.Fatalf("user %d: expected %s, got %s", id, want, got)
		}
	}
}

func TestRoleOfWithoutRepository(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, 0)
	if got := r.RoleOf(context.Background(), 5); got != RoleUser {
		t.Fatalf("expected USER, got %s", got)
	}
}
