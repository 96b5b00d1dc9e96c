package domain

import "time"

// User is the minimal identity record bookings reference. Credential
// verification lives outside this service; handlers only ever see a
// user id already validated by the auth middleware.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username" validate:"required"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
