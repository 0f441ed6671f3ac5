package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed account for development. The password is only ever used locally.
const (
	seedEmail    = "demo@sitebuilder.local"
	seedPassword = "demo"
)

// Seed populates the database with initial development data: a demo user
// owning one website with an empty home page. It does nothing once any
// user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, seedEmail, string(hash)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert user: %w", err)
	}

	var websiteID string
	err = tx.QueryRow(`
		INSERT INTO websites (user_id, name, context, target_audience, main_goal,
		                      unique_selling_point, brand_personality)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, userID, "Demo Bakery", "A neighbourhood bakery selling sourdough and pastries.",
		"Local families", "Drive pre-orders", "Bread baked before sunrise", "Warm and friendly",
	).Scan(&websiteID)
	if err != nil {
		return fmt.Errorf("seed insert website: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO pages (website_id, name, slug, seo_title)
		VALUES ($1, $2, $3, $4)
	`, websiteID, "Home", "/", "Demo Bakery")
	if err != nil {
		return fmt.Errorf("seed insert page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", seedEmail,
		"password", seedPassword,
	)

	return nil
}
