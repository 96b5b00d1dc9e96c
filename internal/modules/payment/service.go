package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"tourbook/internal/domain"
	"tourbook/internal/gateway/stripe"
	"tourbook/internal/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("booking not found")
	ErrAlreadyPaid   = errors.New("booking has already been paid")
	ErrInvalidAmount = errors.New("invalid payment amount")
	ErrInvalidState  = errors.New("booking is not in a payable state")
)

const checkoutSessionTTL = 30 * time.Minute

type Service struct {
	bookings      bookingReader
	bookingWriter bookingPaymentWriter
	gateway       checkoutGateway

	successURL string
	cancelURL  string
}

func NewService(bookings bookingReader, bookingWriter bookingPaymentWriter, gateway checkoutGateway) *Service {
	return &Service{
		bookings:      bookings,
		bookingWriter: bookingWriter,
		gateway:       gateway,
		successURL:    envOrDefault("CHECKOUT_SUCCESS_URL", "http://localhost:8080/payment/success"),
		cancelURL:     envOrDefault("CHECKOUT_CANCEL_URL", "http://localhost:8080/payment/cancel"),
	}
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// ProcessCashPayment records the intent to pay in person. It confirms the
// booking but leaves paymentStatus pending until SettleCashPayment. A booking
// already confirmed on the cash rail means this call was recorded before, so
// repeats are a no-op.
func (s *Service) ProcessCashPayment(ctx context.Context, userID, bookingID int64) (*PaymentResult, error) {
	b, err := s.getOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if b.PaymentStatus == domain.PaymentCompleted {
		return &PaymentResult{
			Status:  ResultAlreadyPaid,
			Message: "This booking has already been paid.",
			Booking: b,
		}, nil
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrInvalidState
	}
	if b.PaymentMethod == domain.PaymentMethodCash &&
		b.PaymentStatus == domain.PaymentPending &&
		b.Status == domain.BookingConfirmed {
		return &PaymentResult{
			Status:  ResultAlreadyPending,
			Message: "Cash payment is already recorded for this booking.",
			Booking: b,
		}, nil
	}

	if err := s.bookingWriter.UpdatePayment(ctx, b.ID, domain.PaymentMethodCash, domain.PaymentPending, domain.BookingConfirmed); err != nil {
		return nil, err
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		Status:  ResultSuccess,
		Message: "Cash payment recorded successfully.",
		Booking: b,
	}, nil
}

// SettleCashPayment is the explicit operator confirmation that cash changed
// hands; nothing else ever promotes a cash booking to completed.
func (s *Service) SettleCashPayment(ctx context.Context, bookingID int64) (*PaymentResult, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.PaymentStatus == domain.PaymentCompleted {
		return &PaymentResult{
			Status:  ResultAlreadyPaid,
			Message: "This booking has already been paid.",
			Booking: b,
		}, nil
	}
	if b.Status == domain.BookingCancelled || b.PaymentMethod != domain.PaymentMethodCash {
		return nil, ErrInvalidState
	}

	if err := s.bookingWriter.UpdatePayment(ctx, b.ID, domain.PaymentMethodCash, domain.PaymentCompleted, domain.BookingConfirmed); err != nil {
		return nil, err
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		Status:  ResultSuccess,
		Message: "Cash payment settled.",
		Booking: b,
	}, nil
}

// CreateCheckoutSession opens a gateway checkout session for the booking's
// snapshotted amount. The booking row is only touched after the gateway call
// succeeds, so a failed call leaves no half-updated state.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID, bookingID int64) (*CheckoutSessionResponse, error) {
	b, err := s.getOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if b.PaymentStatus == domain.PaymentCompleted {
		return nil, ErrAlreadyPaid
	}
	if b.Status == domain.BookingCancelled {
		return nil, ErrInvalidState
	}
	if b.Tour == nil || b.Tour.Name == "" {
		return nil, ErrInvalidState
	}

	minorUnits, err := toMinorUnits(b.TotalAmount)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(checkoutSessionTTL)
	sess, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutSessionRequest{
		AmountMinorUnits: minorUnits,
		Currency:         b.Currency,
		ProductName:      b.Tour.Name,
		Description:      fmt.Sprintf("Tour booking for %s", b.Tour.Name),
		Metadata: map[string]string{
			"booking_id": fmt.Sprintf("%d", b.ID),
			"user_id":    fmt.Sprintf("%d", b.UserID),
			"tour_name":  b.Tour.Name,
		},
		SuccessURL: fmt.Sprintf("%s?booking=%d", s.successURL, b.ID),
		CancelURL:  fmt.Sprintf("%s?booking=%d", s.cancelURL, b.ID),
		ExpiresAt:  expiresAt,
		// derived from the booking id; stable across the client's transport
		// retries, fresh for every re-issued session
		IdempotencyKey: fmt.Sprintf("booking-%d-checkout-%d", b.ID, time.Now().UnixNano()),
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookingWriter.SetCheckoutSession(ctx, b.ID, sess.ID); err != nil {
		return nil, err
	}

	return &CheckoutSessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// GetPaymentStatus reconciles the booking with the gateway. A paid session
// promotes the local record exactly once; a failed gateway read falls back to
// the last persisted state instead of failing the caller.
func (s *Service) GetPaymentStatus(ctx context.Context, userID, bookingID int64) (*PaymentStatusSnapshot, error) {
	b, err := s.getOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if b.PaymentMethod == domain.PaymentMethodStripe && b.StripeSessionID != "" {
		sess, gerr := s.gateway.RetrieveSession(ctx, b.StripeSessionID)
		if gerr != nil {
			logger.ErrorLogger.Errorf("stripe session retrieval failed booking_id=%d session_id=%s err=%v", b.ID, b.StripeSessionID, gerr)
			return localSnapshot(b), nil
		}

		if sess.PaymentStatus == stripe.SessionPaid && b.PaymentStatus != domain.PaymentCompleted {
			if _, err := s.bookingWriter.MarkPaidIdempotent(ctx, b.ID, sess.PaymentIntentID); err != nil {
				return nil, err
			}
		}

		return &PaymentStatusSnapshot{
			Status:        sess.PaymentStatus,
			Amount:        float64(sess.AmountTotal) / 100,
			Currency:      sess.Currency,
			PaymentMethod: domain.PaymentMethodStripe,
			URL:           sess.URL,
		}, nil
	}

	return localSnapshot(b), nil
}

// getOwnedBooking hides other users' bookings behind ErrNotFound, the same
// way the booking routes do. SettleCashPayment skips this on purpose: it is
// an operator action on someone else's booking by definition.
func (s *Service) getOwnedBooking(ctx context.Context, userID, id int64) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func localSnapshot(b *domain.Booking) *PaymentStatusSnapshot {
	return &PaymentStatusSnapshot{
		Status:        string(b.PaymentStatus),
		Amount:        b.TotalAmount,
		Currency:      b.Currency,
		PaymentMethod: b.PaymentMethod,
	}
}

func toMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}
