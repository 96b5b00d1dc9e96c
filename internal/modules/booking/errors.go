package booking

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrTourFull    = errors.New("tour is fully booked")
	ErrReserveBusy = errors.New("seat reservation is contended, retry")
)
