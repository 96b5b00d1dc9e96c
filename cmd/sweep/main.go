package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tourbook/internal/database"
	"tourbook/internal/modules/booking"
	"tourbook/internal/repository"
)

// Cancels pending, unpaid bookings older than SWEEP_OLDER_THAN (default 24h)
// and releases the seats they were holding. Intended for cron.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	olderThan := 24 * time.Hour
	if v := os.Getenv("SWEEP_OLDER_THAN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid SWEEP_OLDER_THAN: %v", err)
		}
		olderThan = d
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := booking.NewService(
		repository.NewBookingRepository(db),
		repository.NewTourRepository(db),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	released, err := svc.ReleaseStale(ctx, olderThan)
	if err != nil {
		log.Fatalf("stale booking sweep failed: %v", err)
	}

	log.Printf("stale booking sweep completed: released=%d older_than=%s", released, olderThan)
}
