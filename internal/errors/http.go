package errors

import "net/http"

// KindFromStatus maps an HTTP status code returned by the provider to the
// sentinel error that categorizes it. Unknown and 5xx statuses map to
// ErrUnavailable since the caller can do nothing but report the failure.
func KindFromStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return ErrUnavailable
	}
}
