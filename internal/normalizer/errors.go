package normalizer

import crerr "github.com/cockroachdb/errors"

var (
	// ErrMalformedPayload marks a response that cannot be decoded into the expected shape.
	ErrMalformedPayload = crerr.New("malformed payload")
	// ErrEmptyPayload is a payload with no keys at all. It matches ErrMalformedPayload.
	ErrEmptyPayload = crerr.Wrap(ErrMalformedPayload, "empty payload")
)
