package bank

import "errors"

var (
	// Registry errors
	ErrDuplicateIdentity = errors.New("a customer with this id is already registered")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerUnknown   = errors.New("customer is not registered with this bank")
	ErrAccountNotFound   = errors.New("account not found")

	// Transaction errors
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrDailyLimitExceeded      = errors.New("daily withdrawal limit exceeded")
	ErrWithdrawalLimitExceeded = errors.New("amount exceeds the per-withdrawal limit")

	// Persistence errors
	ErrMalformedRecord = errors.New("malformed record")
)
