// Package client is the dashboard-side counterpart of the API: a typed HTTP
// client with a failure taxonomy, the session gate, the refresh controller and
// the presentation renderer.
package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// ErrRefreshInProgress reports a declined refresh; the caller already has a
// cycle running and the new request is not queued.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Kind classifies a failed client operation.
type Kind int

const (
	KindOther Kind = iota
	KindCancelled
	KindTimeout
	KindNetwork
	KindServer     // 5xx
	KindClient     // 4xx other than auth
	KindAuthDenied // 401/403 or a failed session check
)

func (k Kind) String() string {
	switch k {
	case KindCancelled:
		return "cancelled"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindAuthDenied:
		return "auth denied"
	}
	return "other"
}

// Error is the classified failure of one client operation.
type Error struct {
	Kind   Kind
	Op     string
	Status int   // HTTP status when the server answered
	Err    error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Retryable reports whether showing a retry affordance makes sense.
// Cancellations are internal, auth denials force navigation instead.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindNetwork, KindServer:
		return true
	}
	return false
}

// KindOf extracts the classification, KindOther for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// classifyTransport maps a transport-level failure. parent distinguishes an
// outside cancellation from our own request deadline firing.
func classifyTransport(op string, err error, parent context.Context) *Error {
	if parent.Err() == context.Canceled {
		return &Error{Kind: KindCancelled, Op: op, Err: err}
	}
	if uerr, ok := errors.Cause(err).(*url.Error); ok {
		if uerr.Timeout() || errors.Cause(uerr.Err) == context.DeadlineExceeded {
			return &Error{Kind: KindTimeout, Op: op, Err: err}
		}
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	if errors.Cause(err) == context.DeadlineExceeded {
		return &Error{Kind: KindTimeout, Op: op, Err: err}
	}
	return &Error{Kind: KindOther, Op: op, Err: err}
}

func classifyStatus(op string, status int, serverMsg string) *Error {
	var err error
	if serverMsg != "" {
		err = errors.New(serverMsg)
	}
	switch {
	case status == 401 || status == 403:
		return &Error{Kind: KindAuthDenied, Op: op, Status: status, Err: err}
	case status >= 500:
		return &Error{Kind: KindServer, Op: op, Status: status, Err: err}
	case status >= 400:
		return &Error{Kind: KindClient, Op: op, Status: status, Err: err}
	}
	return &Error{Kind: KindOther, Op: op, Status: status, Err: err}
}
