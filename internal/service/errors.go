package service

import "errors"

var (
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrBookNotFound   = errors.New("book not found")
	ErrUnavailable    = errors.New("book not available")
	ErrAlreadyRented  = errors.New("book already rented")
	ErrNoActiveRental = errors.New("no active rental")
)
