package documents

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ukydev/vehicle-service-history/internal/events"
)

var (
	// ErrRenderFailure marks errors raised by the PDF renderer.
	ErrRenderFailure = errors.New("render failure")
	// ErrAborted marks errors caused by request cancellation or timeout.
	ErrAborted = errors.New("request aborted")
)

// IsRenderFailure reports whether err came from the renderer.
func IsRenderFailure(err error) bool {
	return errors.Is(err, ErrRenderFailure)
}

// IsAborted reports whether err was caused by cancellation or timeout.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}

// IsTimeout reports whether an aborted request ran out of time rather than
// being cancelled by the client.
func IsTimeout(err error) bool {
	return IsAborted(err) && errors.Is(err, context.DeadlineExceeded)
}

// aborted marks err as ErrAborted, and also as context.DeadlineExceeded
// when the request ran out of time.
func aborted(ctx context.Context, err error) error {
	err = errors.Mark(err, ErrAborted)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = errors.Mark(err, context.DeadlineExceeded)
	}
	return err
}

// classify marks context failures as aborted and names the failure kind.
func classify(ctx context.Context, err error) (error, string) {
	switch {
	case IsAborted(err):
		return err, events.FailureAborted
	case ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return aborted(ctx, err), events.FailureAborted
	case IsRenderFailure(err):
		return err, events.FailureRender
	default:
		return err, events.FailureUnexpected
	}
}
