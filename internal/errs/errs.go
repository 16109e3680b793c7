// Package errs defines the error taxonomy shared across the aggregator.
//
// Components wrap these sentinels with fmt.Errorf("...: %w", ...) so callers
// can classify failures with errors.Is without depending on the component
// that produced them. The HTTP edge maps each sentinel to a status code.
package errs

import "errors"

var (
	// ErrInvalidRequest signals a missing or empty request parameter.
	ErrInvalidRequest = errors.New("missing or empty request parameter")

	// ErrInvalidIdentifier signals an asset id not present in the registry.
	ErrInvalidIdentifier = errors.New("unknown asset identifier")

	// ErrInvalidDateFormat signals a date that does not parse as dd-mm-yyyy.
	ErrInvalidDateFormat = errors.New("invalid date format, expected dd-mm-yyyy")

	// ErrDateOutOfRange signals a future date or one older than the
	// configured history floor.
	ErrDateOutOfRange = errors.New("date out of allowed range")

	// ErrUpstreamUnavailable signals that the origin API was unreachable or
	// returned a non-success or empty response.
	ErrUpstreamUnavailable = errors.New("upstream price API unavailable")

	// ErrMalformedPayload signals an origin response that could not be decoded.
	ErrMalformedPayload = errors.New("malformed upstream payload")

	// ErrStoreFailure signals an error surfaced from the persistent store.
	ErrStoreFailure = errors.New("persistent store failure")
)
