package payment

import (
	"context"

	"tourbook/internal/domain"
	"tourbook/internal/gateway/stripe"
)

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type bookingPaymentWriter interface {
	UpdatePayment(ctx context.Context, id int64, method domain.PaymentMethod, payment domain.PaymentStatus, status domain.BookingStatus) error
	SetCheckoutSession(ctx context.Context, id int64, sessionID string) error
	MarkPaidIdempotent(ctx context.Context, id int64, paymentIntentID string) (bool, error)
}

type checkoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req stripe.CheckoutSessionRequest) (*stripe.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}
