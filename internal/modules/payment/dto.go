package payment

import (
	"time"

	"tourbook/internal/domain"
)

const (
	ResultSuccess        = "success"
	ResultAlreadyPending = "already_pending"
	ResultAlreadyPaid    = "already_paid"
)

type PaymentResult struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Booking *domain.Booking `json:"booking,omitempty"`
}

type CheckoutSessionResponse struct {
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PaymentStatusSnapshot struct {
	Status        string               `json:"status"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	// URL carries the live checkout link for unpaid stripe sessions so the
	// caller can retry payment.
	URL string `json:"url,omitempty"`
}
