// Package domain defines domain-level errors and pure domain logic for the stocks feature.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors for stock operations.
// These errors represent business failures and are mapped to HTTP statuses by the transport layer.
var (
	// ErrValidation indicates malformed input, such as a bad purchase amount or an
	// unparseable market-cap string. Mapped to a 4xx response; never retried.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream indicates that an external data source was unreachable or returned a
	// non-success status after its own internal retries. Mapped to a 502 response.
	ErrUpstream = errors.New("upstream source failed")

	// ErrQuoteNotFound indicates the quote source exhausted its date-rollback attempts.
	// It wraps ErrUpstream, so errors.Is(err, ErrUpstream) holds for response mapping.
	ErrQuoteNotFound = fmt.Errorf("%w: quote not found within retry window", ErrUpstream)

	// ErrStockNotFound indicates that no stock record exists for the given company code.
	ErrStockNotFound = errors.New("stock not found")
)
