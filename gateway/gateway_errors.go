package gateway

import (
	"context"
	"errors"
	"fmt"
)

var (
	// SessionExpiredErr reports that the call failed because
	// reauthentication was required and did not succeed.
	SessionExpiredErr = errors.New("session expired")

	// TimeoutErr reports that the request budget elapsed before a response
	// arrived.
	TimeoutErr = errors.New("request timed out")

	// NetworkErr reports a transport level failure.
	NetworkErr = errors.New("network error")
)

// HTTPError is a non-authentication HTTP failure, carrying the status code
// and any server supplied message.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status %d: %s", e.StatusCode, e.Message)
}

// canceledByCaller reports whether err stems from the waiting call's own
// context ending, as opposed to the refresh itself failing.
func canceledByCaller(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
