package repository

import (
	"context"
	"errors"
	"time"

	"tourbook/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrTourFull means every seat is taken; retrying will not help.
	ErrTourFull = errors.New("tour is fully booked")
	// ErrReserveContention means the optimistic update lost too many races in a
	// row. Seats may still be free; the caller may retry the whole operation.
	ErrReserveContention = errors.New("seat reservation contention")
)

const reserveMaxAttempts = 5

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

type tourModel struct {
	ID                  int64     `gorm:"column:id;primaryKey"`
	Name                string    `gorm:"column:name"`
	Description         string    `gorm:"column:description"`
	Price               float64   `gorm:"column:price"`
	DurationDays        int       `gorm:"column:duration_days"`
	Date                time.Time `gorm:"column:date"`
	MaxParticipants     int       `gorm:"column:max_participants"`
	CurrentParticipants int       `gorm:"column:current_participants"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (tourModel) TableName() string { return "tours" }

func toDomainTour(m tourModel) *domain.Tour {
	return &domain.Tour{
		ID:                  m.ID,
		Name:                m.Name,
		Description:         m.Description,
		Price:               m.Price,
		DurationDays:        m.DurationDays,
		Date:                m.Date,
		MaxParticipants:     m.MaxParticipants,
		CurrentParticipants: m.CurrentParticipants,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *TourRepository) Create(ctx context.Context, t *domain.Tour) error {
	m := tourModel{
		Name:                t.Name,
		Description:         t.Description,
		Price:               t.Price,
		DurationDays:        t.DurationDays,
		Date:                t.Date,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTour(m)
	return nil
}

func (r *TourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	var m tourModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTour(m), nil
}

func (r *TourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	var rows []tourModel
	tx := r.db.WithContext(ctx).Order("date ASC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Tour, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTour(m))
	}
	return out, nil
}

// Reserve atomically takes one seat. The check and the increment are a single
// conditional UPDATE keyed on the occupancy value just read, so two concurrent
// reservations for the last seat can never both succeed: the loser's update
// matches zero rows and the loop re-reads.
func (r *TourRepository) Reserve(ctx context.Context, tourID int64) error {
	for attempt := 0; attempt < reserveMaxAttempts; attempt++ {
		var m tourModel
		if err := r.db.WithContext(ctx).First(&m, tourID).Error; err != nil {
			return err
		}
		if m.CurrentParticipants >= m.MaxParticipants {
			return ErrTourFull
		}

		res := r.db.WithContext(ctx).
			Model(&tourModel{}).
			Where("id = ? AND current_participants = ?", tourID, m.CurrentParticipants).
			UpdateColumn("current_participants", m.CurrentParticipants+1)
		if res.Error != nil {
			if pgErr, ok := res.Error.(*pgconn.PgError); ok && pgErr.Code == "23514" {
				// capacity CHECK constraint backstop
				return ErrTourFull
			}
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		// lost the race, re-read and try again
	}
	return ErrReserveContention
}

// Release frees one seat, floored at zero. Releasing an already-empty tour is
// not an error: cancellation paths must stay idempotent.
func (r *TourRepository) Release(ctx context.Context, tourID int64) error {
	res := r.db.WithContext(ctx).
		Model(&tourModel{}).
		Where("id = ? AND current_participants > 0", tourID).
		UpdateColumn("current_participants", gorm.Expr("current_participants - 1"))
	return res.Error
}
