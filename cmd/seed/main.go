package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tourbook/internal/database"
	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "tourbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Tour{},
		&domain.Booking{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM tours")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	tourRepo := repository.NewTourRepository(db)
	userRepo := repository.NewUserRepository(db)

	tours := []domain.Tour{
		{
			Name:            "Beach Paradise Tour",
			Description:     "Enjoy a relaxing weekend at the most beautiful beaches",
			Price:           299,
			DurationDays:    3,
			Date:            time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
			MaxParticipants: 20,
		},
		{
			Name:            "Mountain Adventure",
			Description:     "Exciting hiking and camping in the mountains",
			Price:           399,
			DurationDays:    4,
			Date:            time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			MaxParticipants: 15,
		},
		{
			Name:            "Cultural City Tour",
			Description:     "Explore historical landmarks and local cuisine",
			Price:           199,
			DurationDays:    2,
			Date:            time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
			MaxParticipants: 25,
		},
	}
	for i := range tours {
		if err := tourRepo.Create(ctx, &tours[i]); err != nil {
			log.Fatal("Seeding tours failed:", err)
		}
	}

	users := []domain.User{
		{Username: "alice", Name: "Alice"},
		{Username: "bob", Name: "Bob"},
	}
	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Fatal("Seeding users failed:", err)
		}
	}

	log.Printf("Seed completed: tours=%d users=%d", len(tours), len(users))
}
