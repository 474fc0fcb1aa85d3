package migrations_test

import (
	"testing"

	"github.com/davidhoeppner/LernApp2-sub000/internal/infra/postgres/migrations"
)

// Registration happens at package init; importing the package at all
// verifies the migration file names satisfy the registry's
// <timestamp>_<name> convention.
func TestMigrationsRegistered(t *testing.T) {
	sorted := migrations.Migrations.Sorted()
	if len(sorted) == 0 {
		t.Fatal("expected at least one registered migration")
	}
	for _, m := range sorted {
		if m.Name == "" {
			t.Fatalf("migration with empty name: %+v", m)
		}
		if m.Up == nil || m.Down == nil {
			t.Fatalf("migration %s missing up or down", m.Name)
		}
	}
}
