package main

import (
	"context"
	"log"

	"civicwatch/internal/config"
	"civicwatch/internal/db"
	"civicwatch/internal/repository"
	"civicwatch/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	seeder := service.NewSeedService(
		repository.NewUserRepository(gormDB),
		repository.NewPostRepository(gormDB),
		cfg.SeedPassword,
	)

	log.Println("Seeding built-in users and sample reports...")
	result, err := seeder.Seed(context.Background())
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", result.UsersCreated)
	log.Printf("  - Existing users updated: %d", result.UsersUpdated)
	log.Printf("  - Sample reports created: %d", result.PostsCreated)
}
