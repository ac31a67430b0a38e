package services

import "errors"

var (
	// ErrInvalidInput marks errors caused by the request itself.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPaymentProvider marks failures of the external payment service.
	ErrPaymentProvider = errors.New("payment provider failure")
)
