package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodStripe PaymentMethod = "stripe"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodStripe
}

type Booking struct {
	ID                    int64         `json:"id"`
	TourID                int64         `json:"tour_id" validate:"required"`
	UserID                int64         `json:"user_id" validate:"required"`
	Status                BookingStatus `json:"status"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	PaymentMethod         PaymentMethod `json:"payment_method"`
	StripeSessionID       string        `json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string        `json:"stripe_payment_intent_id,omitempty"`

	// Snapshotted from the tour price at creation time, never recomputed.
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// Relations
	Tour *Tour `json:"tour,omitempty" gorm:"foreignKey:TourID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
