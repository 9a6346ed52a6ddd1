package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/JuggernautLabs/ContractStream/internal/models"
)

// Connect opens the Postgres connection and brings the schema up to date.
func Connect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Proposal{},
		&models.Resume{},
		&models.SearchContext{},
		&models.PendingJob{},
		&models.DecidedJob{},
	); err != nil {
		log.Fatal("Migration failed:", err)
	}

	// Password hashing is delegated to Postgres. The digest column is kept
	// off the User model so it never leaves the database, which means
	// AutoMigrate does not know about it; bootstrap it by hand.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		log.Fatal("Failed to enable pgcrypto:", err)
	}
	if err := db.Exec(
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS password_digest text NOT NULL DEFAULT ''",
	).Error; err != nil {
		log.Fatal("Failed to add password_digest column:", err)
	}

	return db
}
