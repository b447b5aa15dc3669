package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Payment callback errors
	ErrPaymentMismatch    = errors.New("reported amount does not match order amount")
	ErrVerificationFailed = errors.New("gateway could not confirm the transaction")
	ErrGatewayUnavailable = errors.New("payment gateway unreachable")
	ErrOrderNotPending    = errors.New("order is not pending")

	// Storage errors
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid transaction execution context")
)
