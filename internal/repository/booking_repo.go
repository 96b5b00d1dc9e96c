package repository

import (
	"context"
	"time"

	"tourbook/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                    int64      `gorm:"column:id;primaryKey"`
	TourID                int64      `gorm:"column:tour_id;index"`
	UserID                int64      `gorm:"column:user_id;index"`
	Status                string     `gorm:"column:status"`
	PaymentStatus         string     `gorm:"column:payment_status"`
	PaymentMethod         string     `gorm:"column:payment_method"`
	StripeSessionID       *string    `gorm:"column:stripe_session_id"`
	StripePaymentIntentID *string    `gorm:"column:stripe_payment_intent_id"`
	TotalAmount           float64    `gorm:"column:total_amount"`
	Currency              string     `gorm:"column:currency"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
	CancelledAt           *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var sessionID, intentID string
	if m.StripeSessionID != nil {
		sessionID = *m.StripeSessionID
	}
	if m.StripePaymentIntentID != nil {
		intentID = *m.StripePaymentIntentID
	}

	return &domain.Booking{
		ID:                    m.ID,
		TourID:                m.TourID,
		UserID:                m.UserID,
		Status:                domain.BookingStatus(m.Status),
		PaymentStatus:         domain.PaymentStatus(m.PaymentStatus),
		PaymentMethod:         domain.PaymentMethod(m.PaymentMethod),
		StripeSessionID:       sessionID,
		StripePaymentIntentID: intentID,
		TotalAmount:           m.TotalAmount,
		Currency:              m.Currency,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
		CancelledAt:           m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var sessionID, intentID *string
	if b.StripeSessionID != "" {
		v := b.StripeSessionID
		sessionID = &v
	}
	if b.StripePaymentIntentID != "" {
		v := b.StripePaymentIntentID
		intentID = &v
	}

	return bookingModel{
		ID:                    b.ID,
		TourID:                b.TourID,
		UserID:                b.UserID,
		Status:                string(b.Status),
		PaymentStatus:         string(b.PaymentStatus),
		PaymentMethod:         string(b.PaymentMethod),
		StripeSessionID:       sessionID,
		StripePaymentIntentID: intentID,
		TotalAmount:           b.TotalAmount,
		Currency:              b.Currency,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
		CancelledAt:           b.CancelledAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	b := toDomainBooking(m)
	if t, err := r.tourFor(ctx, m.TourID); err == nil {
		b.Tour = t
	}
	return b, nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b := toDomainBooking(m)
		if t, err := r.tourFor(ctx, m.TourID); err == nil {
			b.Tour = t
		}
		out = append(out, *b)
	}
	return out, nil
}

func (r *BookingRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("user_id = ?", userID).Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

// Cancel marks the booking cancelled. RowsAffected reports whether this call
// performed the transition, so a repeated cancel never releases a seat twice.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status <> ?", id, domain.BookingCancelled).
		Updates(map[string]interface{}{
			"status":       domain.BookingCancelled,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CancelIfUnpaid cancels the booking only if it is still pending and unpaid.
// The stale sweep selects candidates in a separate read, so the WHERE clause
// re-asserts both fields: a booking paid between selection and this write is
// left alone.
func (r *BookingRepository) CancelIfUnpaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ? AND payment_status = ?",
			id, domain.BookingPending, domain.PaymentPending).
		Updates(map[string]interface{}{
			"status":       domain.BookingCancelled,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdatePayment persists a payment transition in one write.
func (r *BookingRepository) UpdatePayment(ctx context.Context, id int64, method domain.PaymentMethod, payment domain.PaymentStatus, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_method": method,
			"payment_status": payment,
			"status":         status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetCheckoutSession records the gateway session reference and switches the
// booking to the stripe rail. Called only after the gateway accepted the
// session, so a failed gateway call leaves the row untouched.
func (r *BookingRepository) SetCheckoutSession(ctx context.Context, id int64, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_method":    domain.PaymentMethodStripe,
			"stripe_session_id": sessionID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkPaidIdempotent promotes the booking to completed/confirmed unless it is
// already completed. The guard sits in the WHERE clause, so a concurrent or
// stale reconciliation read can never regress a completed payment.
func (r *BookingRepository) MarkPaidIdempotent(ctx context.Context, id int64, paymentIntentID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status <> ?", id, domain.PaymentCompleted).
		Updates(map[string]interface{}{
			"payment_status":           domain.PaymentCompleted,
			"status":                   domain.BookingConfirmed,
			"stripe_payment_intent_id": paymentIntentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// StaleBooking is a pending, unpaid booking still holding a seat.
type StaleBooking struct {
	ID     int64
	TourID int64
}

func (r *BookingRepository) GetStale(ctx context.Context, before time.Time) ([]StaleBooking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			domain.BookingPending, domain.PaymentPending, before).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]StaleBooking, 0, len(rows))
	for _, m := range rows {
		out = append(out, StaleBooking{ID: m.ID, TourID: m.TourID})
	}
	return out, nil
}

func (r *BookingRepository) tourFor(ctx context.Context, tourID int64) (*domain.Tour, error) {
	var m tourModel
	if err := r.db.WithContext(ctx).First(&m, tourID).Error; err != nil {
		return nil, err
	}
	return toDomainTour(m), nil
}
