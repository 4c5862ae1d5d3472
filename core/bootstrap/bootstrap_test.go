package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	coredatabase "github.com/m3rciful/bankbot/core/database"
)

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var migrated bool
	_, err := Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Connect: func(ctx context.Context, _ coredatabase.Config) (*sqlx.DB, error) {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("connect must run under a deadline")
			}
			return nil, boom
		},
		Migrate: func(coredatabase.Config) error {
			migrated = true
			return nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if migrated {
		t.Fatal("migrations must not run without a database")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	t.Parallel()

	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
