package domain

import "time"

type Tour struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name" validate:"required"`
	Description         string    `json:"description,omitempty"`
	Price               float64   `json:"price" validate:"required,gt=0"`
	DurationDays        int       `json:"duration_days" validate:"required,gt=0"`
	Date                time.Time `json:"date" validate:"required"`
	MaxParticipants     int       `json:"max_participants" validate:"required,gt=0"`
	CurrentParticipants int       `json:"current_participants" gorm:"check:chk_tour_capacity,current_participants <= max_participants"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// AvailableSeats is derived; the occupancy counter itself is mutated only
// through the tour repository's Reserve/Release.
func (t *Tour) AvailableSeats() int {
	n := t.MaxParticipants - t.CurrentParticipants
	if n < 0 {
		return 0
	}
	return n
}
