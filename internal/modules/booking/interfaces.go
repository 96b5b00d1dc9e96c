package booking

import (
	"context"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// BookingRepository defines the persistence operations the lifecycle needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	Cancel(ctx context.Context, id int64, at time.Time) (bool, error)
	CancelIfUnpaid(ctx context.Context, id int64, at time.Time) (bool, error)
	GetStale(ctx context.Context, before time.Time) ([]repository.StaleBooking, error)
}

// TourRepository is the capacity ledger: Reserve/Release are the only
// operations anywhere that touch the occupancy counter.
type TourRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	Reserve(ctx context.Context, tourID int64) error
	Release(ctx context.Context, tourID int64) error
}
