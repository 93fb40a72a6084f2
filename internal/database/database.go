package database

import (
	"fmt"
	"log"
	"time"

	"market/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and configures the connection pool.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Successfully connected to PostgreSQL!")
	return db, nil
}

// postgresSearchDDL adds the full-text and trigram machinery used by product
// search. The tsv column indexes names and descriptions in both the english
// and russian configurations.
var postgresSearchDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS tsv tsvector GENERATED ALWAYS AS (
		setweight(to_tsvector('english', coalesce(name, '')), 'A') ||
		setweight(to_tsvector('english', coalesce(description, '')), 'B') ||
		setweight(to_tsvector('russian', coalesce(name, '')), 'A') ||
		setweight(to_tsvector('russian', coalesce(description, '')), 'B')
	) STORED`,
	`CREATE INDEX IF NOT EXISTS idx_products_tsv ON products USING GIN (tsv)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name_trgm ON products USING GIN (name gin_trgm_ops)`,
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// One active review per user and product. Inactive reviews are history.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_active_user_product
		ON reviews (user_id, product_id) WHERE is_active`).Error
	if err != nil {
		return fmt.Errorf("failed to create review index: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresSearchDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to prepare product search: %w", err)
		}
	}
	return nil
}
