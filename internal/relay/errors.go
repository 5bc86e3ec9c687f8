package relay

import "errors"

// ErrMalformedPayload marks a webhook body that is not valid JSON at all.
// This is the one failure that propagates to the caller; there is no tree to
// walk, so no default exists.
var ErrMalformedPayload = errors.New("malformed webhook payload")
