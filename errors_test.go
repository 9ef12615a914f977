//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		status otc.Status
		want   error
	}{
		{otc.InvalidParam, ErrInvalidParam},
		{otc.Fatal, ErrFatal},
		{otc.ConnectionDropped, ErrConnectionDropped},
		{otc.TimedOut, ErrTimedOut},
		{otc.UnknownPublisherInstance, ErrUnknownPublisherInstance},
		{otc.UnknownSubscriberInstance, ErrUnknownSubscriberInstance},
		{otc.VideoCaptureFailed, ErrVideoCaptureFailed},
		{otc.CameraFailed, ErrCameraFailed},
		{otc.VideoRenderFailed, ErrVideoRenderFailed},
		{otc.UnableToAccessMediaEngine, ErrUnableToAccessMediaEngine},
		{otc.Status(777), ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(int32(tt.status)), func(t *testing.T) {
			err := statusError(tt.status, "op")
			assert.ErrorIs(t, err, tt.want)

			var e *Error
			if assert.True(t, errors.As(err, &e)) {
				assert.Equal(t, int32(tt.status), e.Code)
				assert.Equal(t, "op", e.Op)
			}
		})
	}
	assert.NoError(t, statusError(otc.Success, "op"))
}

func TestErrorMatchingByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", newError(KindNullHandle, "session connect"))
	assert.True(t, IsNullHandle(err))
	assert.Equal(t, KindNullHandle, KindOf(err))
	assert.False(t, errors.Is(err, ErrFatal))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "opentok: session connect: null handle", newError(KindNullHandle, "session connect").Error())
	assert.Equal(t, "opentok: video frame set timestamp: invalid parameter (status 1)",
		statusError(otc.InvalidParam, "video frame set timestamp").Error())
	assert.Equal(t, "opentok: null handle", ErrNullHandle.Error())
}

func TestAsyncErrorCodes(t *testing.T) {
	assert.Equal(t, SessionConnectionDropped, sessionErrorCode(1022))
	assert.Equal(t, SessionErrorUnknown, sessionErrorCode(1))
	assert.Equal(t, PublisherTimedOut, publisherErrorCode(1541))
	assert.Equal(t, PublisherErrorUnknown, publisherErrorCode(1542))
	assert.Equal(t, SubscriberTimedOut, subscriberErrorCode(1542))
	assert.Equal(t, SubscriberStreamLimitExceeded, subscriberErrorCode(1605))
	assert.Equal(t, "unknown", SubscriberErrorCode(5).String())
	assert.Equal(t, "codec not supported", VideoReasonCodecNotSupported.String())
}
