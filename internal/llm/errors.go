package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindUnavailable covers network failures and 5xx answers.
	KindUnavailable ErrorKind = iota
	KindRateLimited
	// KindRejected is a 4xx other than 429: bad key, unknown model, bad
	// request. Repeating the call cannot help.
	KindRejected
	// KindMalformed means the reply was not JSON matching the schema.
	KindMalformed
	// KindTruncated means the model ran out of tokens mid-document.
	KindTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed reply"
	case KindTruncated:
		return "truncated reply"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by Client.Generate and by backends.
type Error struct {
	Kind       ErrorKind
	Vendor     string
	Status     int           // HTTP status when the vendor answered
	RetryAfter time.Duration // set on some rate limits
	Content    json.RawMessage
	Usage      Usage // tokens spent on the failed request, when known
	Err        error
}

func (e *Error) Error() string {
	msg := e.Vendor + ": " + e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Temporary reports whether the same call may succeed if repeated.
func (e *Error) Temporary() bool {
	return e.Kind == KindUnavailable || e.Kind == KindRateLimited
}

// statusError maps an HTTP status from a vendor SDK error. A zero status
// means the request never got an answer.
func statusError(vendor string, status int, err error) *Error {
	e := &Error{Vendor: vendor, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	default:
		e.Kind = KindUnavailable
	}
	return e
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
