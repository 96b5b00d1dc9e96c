package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourbook/internal/domain"

	"gorm.io/gorm"
)

func createTestBooking(t *testing.T, repo *BookingRepository, tourID, userID int64) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		TourID:        tourID,
		UserID:        userID,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
		PaymentMethod: domain.PaymentMethodCash,
		TotalAmount:   299,
		Currency:      "usd",
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return b
}

func TestBookingRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)

	b := createTestBooking(t, repo, tour.ID, 42)
	if b.ID == 0 {
		t.Fatal("expected booking id to be set")
	}

	got, err := repo.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.UserID != 42 || got.TourID != tour.ID {
		t.Fatalf("unexpected booking: %+v", got)
	}
	if got.TotalAmount != 299 || got.Currency != "usd" {
		t.Fatalf("unexpected amount snapshot: %f %s", got.TotalAmount, got.Currency)
	}
	if got.Tour == nil || got.Tour.Name != "Beach Paradise Tour" {
		t.Fatalf("expected tour to be loaded, got %+v", got.Tour)
	}
}

func TestBookingRepository_GetByUserID_CreationOrder(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)

	first := createTestBooking(t, repo, tour.ID, 42)
	second := createTestBooking(t, repo, tour.ID, 42)
	third := createTestBooking(t, repo, tour.ID, 42)
	createTestBooking(t, repo, tour.ID, 7) // someone else's

	list, err := repo.GetByUserID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetByUserID returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(list))
	}
	want := []int64{first.ID, second.ID, third.ID}
	for i, b := range list {
		if b.ID != want[i] {
			t.Fatalf("expected creation order %v, got %d at index %d", want, b.ID, i)
		}
	}
}

func TestBookingRepository_CancelIdempotent(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)
	b := createTestBooking(t, repo, tour.ID, 42)
	ctx := context.Background()

	transitioned, err := repo.Cancel(ctx, b.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if !transitioned {
		t.Fatal("expected first cancel to transition")
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != domain.BookingCancelled {
		t.Fatalf("expected cancelled status, got %s", got.Status)
	}
	if got.CancelledAt == nil {
		t.Fatal("expected cancelled_at to be set")
	}

	transitioned, err = repo.Cancel(ctx, b.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("second Cancel returned error: %v", err)
	}
	if transitioned {
		t.Fatal("expected second cancel to be a no-op")
	}
}

func TestBookingRepository_MarkPaidIdempotent(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)
	b := createTestBooking(t, repo, tour.ID, 42)
	ctx := context.Background()

	promoted, err := repo.MarkPaidIdempotent(ctx, b.ID, "pi_test_123")
	if err != nil {
		t.Fatalf("MarkPaidIdempotent returned error: %v", err)
	}
	if !promoted {
		t.Fatal("expected first mark-paid to promote")
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentCompleted || got.Status != domain.BookingConfirmed {
		t.Fatalf("unexpected state after promotion: %s/%s", got.Status, got.PaymentStatus)
	}
	if got.StripePaymentIntentID != "pi_test_123" {
		t.Fatalf("expected payment intent to be recorded, got %q", got.StripePaymentIntentID)
	}

	// a later stale read must not overwrite the recorded intent
	promoted, err = repo.MarkPaidIdempotent(ctx, b.ID, "pi_test_other")
	if err != nil {
		t.Fatalf("second MarkPaidIdempotent returned error: %v", err)
	}
	if promoted {
		t.Fatal("expected second mark-paid to be a no-op")
	}
	got, _ = repo.GetByID(ctx, b.ID)
	if got.StripePaymentIntentID != "pi_test_123" {
		t.Fatalf("expected original payment intent, got %q", got.StripePaymentIntentID)
	}
}

func TestBookingRepository_UpdatePayment_NotFound(t *testing.T) {
	repo := NewBookingRepository(setupTestDB(t))
	err := repo.UpdatePayment(context.Background(), 9999, domain.PaymentMethodCash, domain.PaymentPending, domain.BookingConfirmed)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestBookingRepository_SetCheckoutSession(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)
	b := createTestBooking(t, repo, tour.ID, 42)
	ctx := context.Background()

	if err := repo.SetCheckoutSession(ctx, b.ID, "cs_test_123"); err != nil {
		t.Fatalf("SetCheckoutSession returned error: %v", err)
	}
	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.PaymentMethod != domain.PaymentMethodStripe {
		t.Fatalf("expected stripe method, got %s", got.PaymentMethod)
	}
	if got.StripeSessionID != "cs_test_123" {
		t.Fatalf("expected session id to be recorded, got %q", got.StripeSessionID)
	}
}

func TestBookingRepository_CancelIfUnpaid_PaidAfterStaleRead(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	b := &domain.Booking{
		TourID: tour.ID, UserID: 42,
		Status: domain.BookingPending, PaymentStatus: domain.PaymentPending,
		PaymentMethod: domain.PaymentMethodStripe, TotalAmount: 299, Currency: "usd",
		CreatedAt: old,
	}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}

	stale, err := repo.GetStale(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("GetStale returned error: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != b.ID {
		t.Fatalf("expected booking %d in stale set, got %+v", b.ID, stale)
	}

	// payment lands between the stale read and the sweep's write
	promoted, err := repo.MarkPaidIdempotent(ctx, b.ID, "pi_test_race")
	if err != nil {
		t.Fatalf("MarkPaidIdempotent returned error: %v", err)
	}
	if !promoted {
		t.Fatal("expected mark-paid to promote")
	}

	transitioned, err := repo.CancelIfUnpaid(ctx, b.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("CancelIfUnpaid returned error: %v", err)
	}
	if transitioned {
		t.Fatal("expected cancel of a paid booking to be a no-op")
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != domain.BookingConfirmed || got.PaymentStatus != domain.PaymentCompleted {
		t.Fatalf("expected confirmed/completed to survive the sweep, got %s/%s", got.Status, got.PaymentStatus)
	}
	if got.CancelledAt != nil {
		t.Fatal("expected cancelled_at to stay unset")
	}
}

func TestBookingRepository_GetStale(t *testing.T) {
	db := setupTestDB(t)
	tours := NewTourRepository(db)
	repo := NewBookingRepository(db)
	tour := createTestTour(t, tours, 10)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)

	stale := &domain.Booking{
		TourID: tour.ID, UserID: 42,
		Status: domain.BookingPending, PaymentStatus: domain.PaymentPending,
		PaymentMethod: domain.PaymentMethodCash, TotalAmount: 299, Currency: "usd",
		CreatedAt: old,
	}
	if err := repo.Create(ctx, stale); err != nil {
		t.Fatalf("failed to create stale booking: %v", err)
	}

	confirmed := &domain.Booking{
		TourID: tour.ID, UserID: 42,
		Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPending,
		PaymentMethod: domain.PaymentMethodCash, TotalAmount: 299, Currency: "usd",
		CreatedAt: old,
	}
	if err := repo.Create(ctx, confirmed); err != nil {
		t.Fatalf("failed to create confirmed booking: %v", err)
	}

	fresh := createTestBooking(t, repo, tour.ID, 42)

	got, err := repo.GetStale(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("GetStale returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 stale booking, got %d", len(got))
	}
	if got[0].ID != stale.ID || got[0].TourID != tour.ID {
		t.Fatalf("unexpected stale booking: %+v", got[0])
	}
	if got[0].ID == fresh.ID {
		t.Fatal("fresh booking must not be swept")
	}
}
