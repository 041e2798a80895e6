package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		transient bool
	}{
		{name: "context timeout", err: context.DeadlineExceeded, transient: true},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, transient: true},
		{name: "connection refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, transient: true},
		{name: "server error", status: http.StatusInternalServerError, err: errors.New("Internal Server Error"), transient: true},
		{name: "bad gateway", status: http.StatusBadGateway, err: errors.New("Bad Gateway"), transient: true},
		{name: "rate limited", status: http.StatusTooManyRequests, err: errors.New("Too Many Requests"), transient: true},
		{name: "not found", status: http.StatusNotFound, err: errors.New("Not Found"), transient: false},
		{name: "forbidden", status: http.StatusForbidden, err: errors.New("Forbidden"), transient: false},
		{name: "unknown", err: errors.New("weird"), transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.status, tt.err)

			var transient *TransientError
			if isTransient := errors.As(got, &transient); isTransient != tt.transient {
				t.Fatalf("classify(%d, %v) transient = %v, want %v", tt.status, tt.err, isTransient, tt.transient)
			}
			if !tt.transient && !IsPermanent(got) {
				t.Fatalf("classify(%d, %v) should be permanent", tt.status, tt.err)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	inner := errors.New("boom")

	if !errors.Is(&TransientError{Err: inner}, inner) {
		t.Fatalf("transient error should unwrap to inner")
	}
	if !errors.Is(&PermanentError{Err: inner}, inner) {
		t.Fatalf("permanent error should unwrap to inner")
	}
}
