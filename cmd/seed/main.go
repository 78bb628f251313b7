// Command main runs the database seeder for Hachiko demo data.
package main

import (
	"context"
	"flag"
	"log"

	"hachiko/internal/config"
	"hachiko/internal/database"
	"hachiko/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numMessages := flag.Int("messages", 100, "Number of chat messages to create")
	shouldClean := flag.Bool("clean", true, "Clean chat tables before seeding")
	flag.Parse()

	log.Printf("Seeding %d users, %d messages (clean=%v)", *numUsers, *numMessages, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(context.Background(), db, seed.Options{
		Users:    *numUsers,
		Messages: *numMessages,
		Clean:    *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
