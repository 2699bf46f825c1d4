package main

import (
	"log"
	"os"

	"raw-ai-be/internal/model"
	"raw-ai-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions (Postgres only)
	if !database.IsSQLite(dsn) {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Printf("Warn: Failed to create uuid-ossp extension: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate
	models := model.All()
	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := database.Migrate(db, models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
