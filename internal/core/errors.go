package core

import "errors"

var (
	// ErrInvalidEvent marks a transaction message missing required fields.
	// The consumer drops such events without retry.
	ErrInvalidEvent = errors.New("invalid transaction event")

	// ErrInvalidTransaction marks a transaction request that fails validation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInvalidAmount marks an amount that is not a well-formed decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMalformedPeriod marks a caller-supplied period string that does not
	// match the YYYY-MM format.
	ErrMalformedPeriod = errors.New("malformed period")

	// ErrReportNotFound is returned by read and delete paths when no monthly
	// report exists for the requested user and period.
	ErrReportNotFound = errors.New("report not found")

	// ErrTransactionNotFound is returned when no transaction exists for the
	// requested id.
	ErrTransactionNotFound = errors.New("transaction not found")
)
