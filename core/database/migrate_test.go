package database

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestPendingFiles(t *testing.T) {
	t.Parallel()

	files := []string{"0001_init_schema.up.sql", "0002_seed_products.up.sql", "0003_indexes.up.sql", "notes_up.sql"}
	want := []string{"0002_seed_products.up.sql", "0003_indexes.up.sql"}
	if got := pendingFiles(files, 1, 3); !slices.Equal(got, want) {
		t.Fatalf("unexpected selection %v", got)
	}
	if got := pendingFiles(files, 3, 3); len(got) != 0 {
		t.Fatalf("expected nothing pending, got %v", got)
	}
}

func TestListMigrationFilesSkipsDown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"0002_b.up.sql", "0001_a.up.sql", "0001_a.down.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if got := listMigrationFiles(dir); !slices.Equal(got, []string{"0001_a.up.sql", "0002_b.up.sql"}) {
		t.Fatalf("unexpected files %v", got)
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "sql")
	if got, err := resolveMigrationsDir(abs); err != nil || got != abs {
		t.Fatalf("absolute dir must be kept, got %q %v", got, err)
	}
	got, err := resolveMigrationsDir(" ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(got) != defaultMigrationsDir || !filepath.IsAbs(got) {
		t.Fatalf("unexpected default dir %q", got)
	}
}

func TestConnectionStrings(t *testing.T) {
	t.Parallel()

	cfg := Config{Host: "db", Port: "5432", User: "bank", Password: "p@ss word", Name: "bank", SSLMode: "disable"}
	if got := cfg.URL(); got != "postgres://bank:p%40ss%20word@db:5432/bank?sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}
	cfg.Password = "it's"
	if dsn := cfg.DSN(); !strings.Contains(dsn, `password='it\'s'`) || !strings.Contains(dsn, "dbname='bank'") {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}
