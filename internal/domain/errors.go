package domain

import "errors"

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrSeatAlreadyHeld       = errors.New("seat(s) are already held by another user")
	ErrHoldExpired           = errors.New("your seat hold has expired, please select your seats again")
	ErrSeatAlreadyTicketed   = errors.New("seat(s) are already sold for this showtime")
	ErrInsufficientBalance   = errors.New("wallet balance is insufficient for this order")
	ErrBookingNotCancellable = errors.New("booking is already cancelled")
	ErrEditConflict          = errors.New("edit conflict")
)
