package catalog

import "time"

type TourResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	DurationDays    int       `json:"duration_days"`
	Date            time.Time `json:"date"`
	MaxParticipants int       `json:"max_participants"`
	AvailableSeats  int       `json:"available_seats"`
}
