package catalog

import (
	"context"
	"errors"

	"tourbook/internal/domain"
	"tourbook/internal/repository"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("tour not found")

type Service struct {
	tours *repository.TourRepository
}

func NewService(tours *repository.TourRepository) *Service {
	return &Service{tours: tours}
}

func (s *Service) ListTours(ctx context.Context) ([]TourResponse, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TourResponse, 0, len(tours))
	for i := range tours {
		out = append(out, toResponse(&tours[i]))
	}
	return out, nil
}

func (s *Service) GetTour(ctx context.Context, id int64) (*TourResponse, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r := toResponse(t)
	return &r, nil
}

func toResponse(t *domain.Tour) TourResponse {
	return TourResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Price:           t.Price,
		Currency:        "usd",
		DurationDays:    t.DurationDays,
		Date:            t.Date,
		MaxParticipants: t.MaxParticipants,
		AvailableSeats:  t.AvailableSeats(),
	}
}
