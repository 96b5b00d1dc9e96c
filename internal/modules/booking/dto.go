package booking

type CreateBookingRequest struct {
	TourID        int64  `json:"tour_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash stripe"`
}
