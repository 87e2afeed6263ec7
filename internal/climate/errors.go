package climate

import "errors"

var (
	// ErrTransport indicates a network failure or a non-success HTTP status.
	ErrTransport = errors.New("transport failure")

	// ErrEmptyResult indicates the service returned zero records for the request.
	ErrEmptyResult = errors.New("no records returned")

	// ErrMalformedEnvelope indicates the response lacked an expected payload key
	// or column, or could not be decoded at all.
	ErrMalformedEnvelope = errors.New("malformed response envelope")

	// ErrMalformedDate indicates a date field that could not be parsed.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMalformedValue indicates a temperature value that is not numeric.
	ErrMalformedValue = errors.New("malformed value")
)
