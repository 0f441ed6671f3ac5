package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"sitebuilder/internal/database"
	"sitebuilder/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects to the test PostgreSQL and brings its schema up to date.
// The test is skipped when the server is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envOr("POSTGRES_USER", "sitebuilder"),
		envOr("POSTGRES_PASSWORD", "changeme"),
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_DB", "sitebuilder"),
	)
	db, err := database.Connect(dsn)
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// cleanUsers removes test users by email. Websites and pages cascade.
// Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testOwner creates a throwaway user and removes it after the test.
func testOwner(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	cleanUsers(t, db, email)
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := NewUserStore(db).Create(email, "pass")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return u
}

// testWebsite creates a website for a throwaway owner.
func testWebsite(t *testing.T, db *sql.DB, email string) *models.Website {
	t.Helper()
	owner := testOwner(t, db, email)
	w, err := NewWebsiteStore(db).Create(owner.ID, "Test Site", "A test website")
	if err != nil {
		t.Fatalf("create website: %v", err)
	}
	if w.UserID != owner.ID {
		t.Fatalf("website owner: got %s, want %s", w.UserID, owner.ID)
	}
	return w
}
