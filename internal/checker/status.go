package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Status is the scoring outcome of a check.
type Status int

const (
	Functional Status = 0
	Broken     Status = 1
	Down       Status = -1
)

func (s Status) String() string {
	switch s {
	case Functional:
		return "functional"
	case Broken:
		return "broken"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedToken
	KindHTTPStatus
	KindDeserialize
	KindConnection
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMalformedToken:
		return "malformed_token"
	case KindHTTPStatus:
		return "http_status"
	case KindDeserialize:
		return "deserialize"
	case KindConnection:
		return "connection"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status maps the kind onto the down / broken / functional taxonomy.
func (k ErrorKind) Status() Status {
	switch k {
	case KindNone:
		return Functional
	case KindMalformedToken, KindHTTPStatus, KindDeserialize:
		return Broken
	default:
		return Down
	}
}

const (
	msgMalformedToken = "malformed token"
	msgDeserialize    = "error deserializing json in response"
	msgTimeout        = "timed out"
)

// Failure is a classified check error.
type Failure struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind ErrorKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Reason)
}

func newStatusError(resp *http.Response) *StatusError {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Reason: reason}
}

// Classify folds any error returned while talking to the service into a Failure.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return newFailure(KindHTTPStatus, statusErr.Error(), err)
	}

	if isTimeout(err) {
		return newFailure(KindConnection, msgTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return newFailure(KindConnection, urlErr.Err.Error(), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return newFailure(KindConnection, netErr.Error(), err)
	}

	return newFailure(KindUnknown, err.Error(), err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
