//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"errors"
	"fmt"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// ErrorKind classifies a synchronous failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidParam
	KindFatal
	KindConnectionDropped
	KindTimedOut
	KindUnknownPublisherInstance
	KindUnknownSubscriberInstance
	KindVideoCaptureFailed
	KindCameraFailed
	KindVideoRenderFailed
	KindUnableToAccessMediaEngine
	KindNullHandle
	KindAlreadyInitialized
	KindInitializationFailure
	KindRenderCallbacksOverrideNotAllowed
	KindCaptureCallbacksOverrideNotAllowed
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                            "unknown error",
	KindInvalidParam:                       "invalid parameter",
	KindFatal:                              "fatal error",
	KindConnectionDropped:                  "connection dropped",
	KindTimedOut:                           "timed out",
	KindUnknownPublisherInstance:           "unknown publisher instance",
	KindUnknownSubscriberInstance:          "unknown subscriber instance",
	KindVideoCaptureFailed:                 "video capture failed",
	KindCameraFailed:                       "camera failed",
	KindVideoRenderFailed:                  "video render failed",
	KindUnableToAccessMediaEngine:          "unable to access media engine",
	KindNullHandle:                         "null handle",
	KindAlreadyInitialized:                 "already initialized",
	KindInitializationFailure:              "initialization failure",
	KindRenderCallbacksOverrideNotAllowed:  "render callbacks override not allowed",
	KindCaptureCallbacksOverrideNotAllowed: "capture callbacks override not allowed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every call that issues an engine request.
// Code is the raw engine status, or 0 for failures detected on the Go side.
type Error struct {
	Kind ErrorKind
	Code int32
	Op   string
}

func (e *Error) Error() string {
	switch {
	case e.Op == "":
		return "opentok: " + e.Kind.String()
	case e.Code != 0:
		return fmt.Sprintf("opentok: %s: %s (status %d)", e.Op, e.Kind, e.Code)
	default:
		return fmt.Sprintf("opentok: %s: %s", e.Op, e.Kind)
	}
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNullHandle)
// works regardless of Op and Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrUnknown                            = &Error{Kind: KindUnknown}
	ErrInvalidParam                       = &Error{Kind: KindInvalidParam}
	ErrFatal                              = &Error{Kind: KindFatal}
	ErrConnectionDropped                  = &Error{Kind: KindConnectionDropped}
	ErrTimedOut                           = &Error{Kind: KindTimedOut}
	ErrUnknownPublisherInstance           = &Error{Kind: KindUnknownPublisherInstance}
	ErrUnknownSubscriberInstance          = &Error{Kind: KindUnknownSubscriberInstance}
	ErrVideoCaptureFailed                 = &Error{Kind: KindVideoCaptureFailed}
	ErrCameraFailed                       = &Error{Kind: KindCameraFailed}
	ErrVideoRenderFailed                  = &Error{Kind: KindVideoRenderFailed}
	ErrUnableToAccessMediaEngine          = &Error{Kind: KindUnableToAccessMediaEngine}
	ErrNullHandle                         = &Error{Kind: KindNullHandle}
	ErrAlreadyInitialized                 = &Error{Kind: KindAlreadyInitialized}
	ErrInitializationFailure              = &Error{Kind: KindInitializationFailure}
	ErrRenderCallbacksOverrideNotAllowed  = &Error{Kind: KindRenderCallbacksOverrideNotAllowed}
	ErrCaptureCallbacksOverrideNotAllowed = &Error{Kind: KindCaptureCallbacksOverrideNotAllowed}
)

// ErrClosed is returned by Context methods after Deinit.
var ErrClosed = errors.New("opentok: context is closed")

func kindOfStatus(st otc.Status) ErrorKind {
	switch st {
	case otc.InvalidParam:
		return KindInvalidParam
	case otc.Fatal:
		return KindFatal
	case otc.ConnectionDropped:
		return KindConnectionDropped
	case otc.TimedOut:
		return KindTimedOut
	case otc.UnknownPublisherInstance:
		return KindUnknownPublisherInstance
	case otc.UnknownSubscriberInstance:
		return KindUnknownSubscriberInstance
	case otc.VideoCaptureFailed:
		return KindVideoCaptureFailed
	case otc.CameraFailed:
		return KindCameraFailed
	case otc.VideoRenderFailed:
		return KindVideoRenderFailed
	case otc.UnableToAccessMediaEngine:
		return KindUnableToAccessMediaEngine
	default:
		return KindUnknown
	}
}

// statusError translates an engine status. Returns nil on success.
func statusError(st otc.Status, op string) error {
	if st == otc.Success {
		return nil
	}
	return &Error{Kind: kindOfStatus(st), Code: int32(st), Op: op}
}

func newError(kind ErrorKind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNullHandle reports whether err was caused by a missing or deleted handle.
func IsNullHandle(err error) bool {
	return errors.Is(err, ErrNullHandle)
}
