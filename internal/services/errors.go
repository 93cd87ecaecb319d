package services

import "errors"

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrEmailTaken                = errors.New("email already registered")
	ErrInvalidInput              = errors.New("invalid input")
	ErrConflict                  = errors.New("already exists")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrInvalidTransition         = errors.New("status change not allowed")
	ErrEmptyCart                 = errors.New("cart is empty")
	ErrProductUnavailable        = errors.New("product is out of stock")
	ErrAddressRequired           = errors.New("a shipping address is required")
	ErrPaymentMethodDisabled     = errors.New("payment method not available")
	ErrPaymentGatewayUnavailable = errors.New("online payment is unavailable, please choose cash on delivery")
	ErrPaymentFailed             = errors.New("payment could not be verified, please retry or choose cash on delivery")
	ErrTicketClosed              = errors.New("ticket is closed")
	ErrAlreadySubscribed         = errors.New("email already subscribed")
)
