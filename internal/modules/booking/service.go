package booking

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/pkg/logger"
	"tourbook/internal/repository"

	"gorm.io/gorm"
)

const defaultCurrency = "usd"

type Service struct {
	bookings BookingRepository
	tours    TourRepository
}

func NewService(bookings BookingRepository, tours TourRepository) *Service {
	return &Service{
		bookings: bookings,
		tours:    tours,
	}
}

func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, ErrValidation
	}

	tour, err := s.tours.GetByID(ctx, req.TourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.tours.Reserve(ctx, req.TourID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTourFull):
			return nil, ErrTourFull
		case errors.Is(err, repository.ErrReserveContention):
			return nil, ErrReserveBusy
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		}
		return nil, err
	}

	b := &domain.Booking{
		TourID:        req.TourID,
		UserID:        userID,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: method,
		TotalAmount:   tour.Price,
		Currency:      defaultCurrency,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		// the seat is already held; give it back so a failed insert cannot
		// strand capacity
		if rerr := s.tours.Release(ctx, req.TourID); rerr != nil {
			logger.ErrorLogger.Errorf("failed to release seat after booking insert error tour_id=%d err=%v", req.TourID, rerr)
		}
		return nil, err
	}
	b.Tour = tour
	return b, nil
}

// CancelBooking is idempotent: cancelling an already-cancelled booking
// returns it unchanged and never releases a second seat.
func (s *Service) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status == domain.BookingCancelled {
		return b, nil
	}

	transitioned, err := s.bookings.Cancel(ctx, bookingID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if transitioned {
		if err := s.tours.Release(ctx, b.TourID); err != nil {
			logger.ErrorLogger.Errorf("failed to release seat on cancel booking_id=%d tour_id=%d err=%v", bookingID, b.TourID, err)
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetUserBookings returns the user's bookings in creation order.
func (s *Service) GetUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.GetByUserID(ctx, userID)
}

func (s *Service) CountUserBookings(ctx context.Context, userID int64) (int64, error) {
	return s.bookings.CountByUserID(ctx, userID)
}

// ReleaseStale cancels pending, unpaid bookings created before the cutoff and
// frees their seats. Checkout sessions expire after 30 minutes, so anything
// past the cutoff can no longer be paid through its original session.
func (s *Service) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := s.bookings.GetStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, sb := range stale {
		// conditional: a booking paid after the GetStale read must not be
		// cancelled by the sweep
		transitioned, err := s.bookings.CancelIfUnpaid(ctx, sb.ID, time.Now().UTC())
		if err != nil {
			logger.ErrorLogger.Errorf("stale sweep: cancel failed booking_id=%d err=%v", sb.ID, err)
			continue
		}
		if !transitioned {
			continue
		}
		if err := s.tours.Release(ctx, sb.TourID); err != nil {
			logger.ErrorLogger.Errorf("stale sweep: release failed booking_id=%d tour_id=%d err=%v", sb.ID, sb.TourID, err)
			continue
		}
		released++
	}
	return released, nil
}
