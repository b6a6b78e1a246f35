package db

import (
	"fmt"

	types "github.com/giftwise/giftwise-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Core identity + auth
		// =========================
		&types.User{},

		// =========================
		// Contacts + catalog
		// =========================
		&types.Contact{},
		&types.Gift{},

		// =========================
		// Recommendation pipeline
		// =========================
		&types.PreferenceExtraction{},
		&types.RecommendationRun{},
	)
}

func EnsureRecommendationIndexes(db *gorm.DB) error {
	// Latest extraction lookup per contact.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_preference_extraction_contact_created
		ON preference_extraction (contact_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_preference_extraction_contact_created: %w", err)
	}

	// Run history per contact.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recommendation_run_contact_created
		ON recommendation_run (contact_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_recommendation_run_contact_created: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating database tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureRecommendationIndexes(s.db); err != nil {
		s.log.Error("Recommendation index migration failed", "error", err)
		return err
	}
	return nil
}
