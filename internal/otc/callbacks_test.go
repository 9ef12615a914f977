//go:build !ios && !android && (amd64 || arm64)

package otc

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestCallbackTableLayout(t *testing.T) {
	ptr := unsafe.Sizeof(uintptr(0))
	assert.Equal(t, 18*ptr, unsafe.Sizeof(sessionCallbacks{}))
	assert.Equal(t, 9*ptr, unsafe.Sizeof(publisherCallbacks{}))
	assert.Equal(t, 17*ptr, unsafe.Sizeof(subscriberCallbacks{}))
	assert.Equal(t, 7*ptr, unsafe.Sizeof(videoCapturerCallbacks{}))
	assert.Equal(t, 20*ptr, unsafe.Sizeof(audioDeviceCallbacks{}))

	assert.Equal(t, 16*ptr, unsafe.Offsetof(sessionCallbacks{}.userData))
	assert.Equal(t, 7*ptr, unsafe.Offsetof(publisherCallbacks{}.userData))
	assert.Equal(t, 15*ptr, unsafe.Offsetof(subscriberCallbacks{}.userData))
	assert.Equal(t, 5*ptr, unsafe.Offsetof(videoCapturerCallbacks{}.userData))
	assert.Equal(t, 18*ptr, unsafe.Offsetof(audioDeviceCallbacks{}.userData))
}

func TestSettingsLayout(t *testing.T) {
	assert.Equal(t, uintptr(24), unsafe.Sizeof(cVideoCapturerSettings{}))
	assert.Equal(t, uintptr(8), unsafe.Sizeof(cAudioSettings{}))
	assert.Equal(t, uintptr(64), unsafe.Sizeof(cPublisherAudioStats{}))
	assert.Equal(t, uintptr(56), unsafe.Sizeof(cPublisherVideoStats{}))
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "", goString(nil))

	b := []byte("session-1\x00trailing")
	assert.Equal(t, "session-1", goString(&b[0]))

	empty := []byte{0}
	assert.Equal(t, "", goString(&empty[0]))

	// The copy must not alias the C buffer.
	s := goString(&b[0])
	b[0] = 'X'
	assert.Equal(t, "session-1", s)
}

func TestGoStringBounded(t *testing.T) {
	long := []byte(strings.Repeat("a", maxCString+10))
	long = append(long, 0)
	assert.Len(t, goString(&long[0]), maxCString)
}

func TestCBool(t *testing.T) {
	assert.Equal(t, int32(1), cBool(true))
	assert.Equal(t, int32(0), cBool(false))
}

func TestDispatcherSwap(t *testing.T) {
	t.Cleanup(func() { setDispatcher(nil) })
	assert.Nil(t, dispatcher())
	setDispatcher(nopDispatcher{})
	assert.NotNil(t, dispatcher())
	setDispatcher(nil)
	assert.Nil(t, dispatcher())
}

type nopDispatcher struct{ Dispatcher }
