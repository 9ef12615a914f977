//go:build !ios && !android && (amd64 || arm64)

package opentok

import "fmt"

// SessionErrorCode is delivered asynchronously to SessionListeners.OnError.
type SessionErrorCode int32

const (
	SessionErrorUnknown                     SessionErrorCode = 0
	SessionAuthorizationFailure             SessionErrorCode = 1004
	SessionInvalidSession                   SessionErrorCode = 1005
	SessionConnectionFailed                 SessionErrorCode = 1006
	SessionNotConnected                     SessionErrorCode = 1010
	SessionNullOrInvalidParameter           SessionErrorCode = 1011
	SessionIllegalState                     SessionErrorCode = 1015
	SessionStateFailed                      SessionErrorCode = 1020
	SessionConnectionTimedOut               SessionErrorCode = 1021
	SessionConnectionDropped                SessionErrorCode = 1022
	SessionConnectionRefused                SessionErrorCode = 1023
	SessionBlockedCountry                   SessionErrorCode = 1026
	SessionConnectionLimitExceeded          SessionErrorCode = 1027
	SessionSubscriberNotFound               SessionErrorCode = 1112
	SessionPublisherNotFound                SessionErrorCode = 1113
	SessionSignalDataTooLong                SessionErrorCode = 1413
	SessionSignalTypeTooLong                SessionErrorCode = 1414
	SessionInvalidSignalType                SessionErrorCode = 1461
	SessionNoMessagingServer                SessionErrorCode = 1503
	SessionForceUnpublishOrInvalidStream    SessionErrorCode = 1535
	SessionInternalError                    SessionErrorCode = 2000
	SessionUnexpectedGetSessionInfoResponse SessionErrorCode = 2001
)

var sessionErrorNames = map[SessionErrorCode]string{
	SessionAuthorizationFailure:             "authorization failure",
	SessionInvalidSession:                   "invalid session",
	SessionConnectionFailed:                 "connection failed",
	SessionNotConnected:                     "not connected",
	SessionNullOrInvalidParameter:           "null or invalid parameter",
	SessionIllegalState:                     "illegal state",
	SessionStateFailed:                      "state failed",
	SessionConnectionTimedOut:               "connection timed out",
	SessionConnectionDropped:                "connection dropped",
	SessionConnectionRefused:                "connection refused",
	SessionBlockedCountry:                   "blocked country",
	SessionConnectionLimitExceeded:          "connection limit exceeded",
	SessionSubscriberNotFound:               "subscriber not found",
	SessionPublisherNotFound:                "publisher not found",
	SessionSignalDataTooLong:                "signal data too long",
	SessionSignalTypeTooLong:                "signal type too long",
	SessionInvalidSignalType:                "invalid signal type",
	SessionNoMessagingServer:                "no messaging server",
	SessionForceUnpublishOrInvalidStream:    "force unpublish or invalid stream",
	SessionInternalError:                    "internal error",
	SessionUnexpectedGetSessionInfoResponse: "unexpected get session info response",
}

// sessionErrorCode maps an engine code onto the known set.
func sessionErrorCode(code int32) SessionErrorCode {
	if _, ok := sessionErrorNames[SessionErrorCode(code)]; ok {
		return SessionErrorCode(code)
	}
	return SessionErrorUnknown
}

func (c SessionErrorCode) String() string {
	if s, ok := sessionErrorNames[c]; ok {
		return s
	}
	return "unknown"
}

// PublisherErrorCode is delivered asynchronously to PublisherListeners.OnError.
type PublisherErrorCode int32

const (
	PublisherErrorUnknown        PublisherErrorCode = 0
	PublisherSessionDisconnected PublisherErrorCode = 1010
	PublisherUnableToPublish     PublisherErrorCode = 1500
	PublisherTimedOut            PublisherErrorCode = 1541
	PublisherWebRTCError         PublisherErrorCode = 1610
	PublisherInternalError       PublisherErrorCode = 2000
)

var publisherErrorNames = map[PublisherErrorCode]string{
	PublisherSessionDisconnected: "session disconnected",
	PublisherUnableToPublish:     "unable to publish",
	PublisherTimedOut:            "timed out",
	PublisherWebRTCError:         "webrtc error",
	PublisherInternalError:       "internal error",
}

func publisherErrorCode(code int32) PublisherErrorCode {
	if _, ok := publisherErrorNames[PublisherErrorCode(code)]; ok {
		return PublisherErrorCode(code)
	}
	return PublisherErrorUnknown
}

func (c PublisherErrorCode) String() string {
	if s, ok := publisherErrorNames[c]; ok {
		return s
	}
	return "unknown"
}

// SubscriberErrorCode is delivered asynchronously to SubscriberListeners.OnError.
type SubscriberErrorCode int32

const (
	SubscriberErrorUnknown           SubscriberErrorCode = 0
	SubscriberSessionDisconnected    SubscriberErrorCode = 1010
	SubscriberTimedOut               SubscriberErrorCode = 1542
	SubscriberWebRTCError            SubscriberErrorCode = 1600
	SubscriberServerCannotFindStream SubscriberErrorCode = 1604
	SubscriberStreamLimitExceeded    SubscriberErrorCode = 1605
	SubscriberInternalError          SubscriberErrorCode = 2000
)

var subscriberErrorNames = map[SubscriberErrorCode]string{
	SubscriberSessionDisconnected:    "session disconnected",
	SubscriberTimedOut:               "timed out",
	SubscriberWebRTCError:            "webrtc error",
	SubscriberServerCannotFindStream: "server cannot find stream",
	SubscriberStreamLimitExceeded:    "stream limit exceeded",
	SubscriberInternalError:          "internal error",
}

func subscriberErrorCode(code int32) SubscriberErrorCode {
	if _, ok := subscriberErrorNames[SubscriberErrorCode(code)]; ok {
		return SubscriberErrorCode(code)
	}
	return SubscriberErrorUnknown
}

func (c SubscriberErrorCode) String() string {
	if s, ok := subscriberErrorNames[c]; ok {
		return s
	}
	return "unknown"
}

// SessionError is an asynchronous session failure.
type SessionError struct {
	Code    SessionErrorCode
	Message string
}

func (e SessionError) Error() string {
	return fmt.Sprintf("opentok: session: %s: %s", e.Code, e.Message)
}

// PublisherError is an asynchronous publisher failure.
type PublisherError struct {
	Code    PublisherErrorCode
	Message string
}

func (e PublisherError) Error() string {
	return fmt.Sprintf("opentok: publisher: %s: %s", e.Code, e.Message)
}

// SubscriberError is an asynchronous subscriber failure.
type SubscriberError struct {
	Code    SubscriberErrorCode
	Message string
}

func (e SubscriberError) Error() string {
	return fmt.Sprintf("opentok: subscriber: %s: %s", e.Code, e.Message)
}

// VideoReason explains why subscribed video was disabled or enabled.
type VideoReason int32

const (
	VideoReasonPublishVideo      VideoReason = 1
	VideoReasonSubscribeToVideo  VideoReason = 2
	VideoReasonQuality           VideoReason = 3
	VideoReasonCodecNotSupported VideoReason = 4
)

func (r VideoReason) String() string {
	switch r {
	case VideoReasonPublishVideo:
		return "publish video"
	case VideoReasonSubscribeToVideo:
		return "subscribe to video"
	case VideoReasonQuality:
		return "quality"
	case VideoReasonCodecNotSupported:
		return "codec not supported"
	default:
		return "unknown"
	}
}

// StreamVideoType is the source kind of a stream's video.
type StreamVideoType int32

const (
	StreamVideoTypeCamera StreamVideoType = 1
	StreamVideoTypeScreen StreamVideoType = 2
	StreamVideoTypeCustom StreamVideoType = 3
)

func (t StreamVideoType) String() string {
	switch t {
	case StreamVideoTypeCamera:
		return "camera"
	case StreamVideoTypeScreen:
		return "screen"
	case StreamVideoTypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// PublisherVideoType is the video kind a publisher advertises.
type PublisherVideoType int32

const (
	PublisherVideoTypeCamera PublisherVideoType = 1
	PublisherVideoTypeScreen PublisherVideoType = 2
)
