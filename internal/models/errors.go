package models

import "errors"

// Sentinel errors surfaced by the services. Storage failures are wrapped
// with %w and propagated unchanged; none of these are retried.
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrOperationNotFound = errors.New("operation not found")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrCardAlreadyActive = errors.New("card is already active")

	ErrLimitExceeded      = errors.New("operation refused: limit exceeded or card inactive")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidOperation   = errors.New("invalid operation type")
	ErrInvalidAlertLevel  = errors.New("invalid alert level")
	ErrEmptyDescription   = errors.New("alert description must not be empty")
	ErrEmailAlreadyExists = errors.New("a client with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
