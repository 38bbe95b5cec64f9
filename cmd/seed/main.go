package main

import (
	"log"

	"github.com/ton-education/backend/config"
	"github.com/ton-education/backend/database"
)

// Seeds the database with referral tiers, the admin user, and the starter
// course catalog. Safe to run repeatedly.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatalf("failed to load env: %v", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if err := database.RunSeeds(store); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("Database seeded")
}
