package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout is returned when a retrieval exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrBlocked is returned when the server refuses non-browser access.
	// Callers may fall back to opening the URL in a browser.
	ErrBlocked = errors.New("access blocked by server")
	// ErrTooLarge is returned when a body exceeds the size cap.
	ErrTooLarge = errors.New("response body too large")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: %s (HTTP %d)", e.URL, statusMessage(e.StatusCode), e.StatusCode)
}

// Is lets errors.Is(err, ErrBlocked) match refusal statuses.
func (e *StatusError) Is(target error) bool {
	return target == ErrBlocked && blocked(e.StatusCode)
}

func checkResponse(rawURL string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
}

func blocked(code int) bool {
	return code == http.StatusForbidden || code == http.StatusUnavailableForLegalReasons
}

// statusMessage maps HTTP status codes to human-readable error messages.
func statusMessage(code int) string {
	switch code {
	case http.StatusNotFound:
		return "thread not found (try --archived)"
	case http.StatusForbidden, http.StatusUnavailableForLegalReasons:
		return "access blocked"
	case http.StatusTooManyRequests:
		return "rate limited, try again later"
	default:
		return fmt.Sprintf("unexpected status %d", code)
	}
}

// IsTimeout reports whether err is a retrieval timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsBlocked reports whether err is a refused retrieval.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}
