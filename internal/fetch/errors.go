package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// TransientError covers failures worth retrying: timeouts, connection
// resets and 5xx responses. Once retries are exhausted it is demoted to a
// PermanentError.
type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("transient: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError covers failures that will not succeed on retry: 404 and
// other 4xx responses, or a transient failure whose retry budget ran out.
type PermanentError struct {
	Status int
	Err    error
}

func (e *PermanentError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("permanent: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a PermanentError.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

// classify maps a response status and transport error onto the taxonomy.
func classify(status int, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientError{Status: status, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransientError{Status: status, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransientError{Status: status, Err: err}
	}

	switch {
	case status >= http.StatusInternalServerError:
		return &TransientError{Status: status, Err: err}
	case status == http.StatusTooManyRequests:
		return &TransientError{Status: status, Err: err}
	case status >= http.StatusBadRequest:
		return &PermanentError{Status: status, Err: err}
	}

	return &PermanentError{Status: status, Err: err}
}
