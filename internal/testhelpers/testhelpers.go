// Package testhelpers provides shared fixtures for package tests.
package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/go-formtemplate/pkg/patients"
)

// NewTestDB returns an in-memory SQLite database configured the same way as
// production and already migrated. It is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := patients.Open(":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := patients.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// NewSeededStore returns a patient store over a fresh database holding the
// demo patients.
func NewSeededStore(t *testing.T) *patients.Store {
	t.Helper()

	store := patients.NewStore(NewTestDB(t))
	if _, err := patients.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed patients: %v", err)
	}
	return store
}
