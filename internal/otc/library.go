//go:build !ios && !android && (amd64 || arm64)

package otc

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/opentok/internal/platform"
)

// ErrLibraryNotFound is returned when libopentok cannot be located.
var ErrLibraryNotFound = errors.New("opentok: libopentok not found")

// LibraryDirEnv names the environment variable searched before the system
// library paths.
const LibraryDirEnv = "OPENTOK_LIB_DIR"

var libraryVersions = []int{2, 0}

// Library is the purego-backed Engine.
type Library struct {
	lib  uintptr
	path string

	// Callback tables live in Go memory and are pinned while the engine
	// may read them, keyed by the handle they were installed for.
	mu     sync.Mutex
	pins   map[Handle]*runtime.Pinner
	frames map[Handle]*runtime.Pinner
	audio  *runtime.Pinner

	otcInit                func(reserved unsafe.Pointer) int32
	otcDestroy             func() int32
	otcLogEnable           func(level int32)
	otcLogSetLogger        func(cb uintptr)
	otcSetAudioDevice      func(callbacks unsafe.Pointer) int32
	otcAudioWriteCapture   func(buf unsafe.Pointer, n uintptr) int32
	otcAudioReadRender     func(buf unsafe.Pointer, n uintptr) uintptr
	otcSessionNew          func(apiKey, sessionID string, callbacks unsafe.Pointer) uintptr
	otcSessionDelete       func(s uintptr) int32
	otcSessionConnect      func(s uintptr, token string) int32
	otcSessionDisconnect   func(s uintptr) int32
	otcSessionPublish      func(s, p uintptr) int32
	otcSessionUnpublish    func(s, p uintptr) int32
	otcSessionSubscribe    func(s, sub uintptr) int32
	otcSessionUnsubscribe  func(s, sub uintptr) int32
	otcSessionSendSignal   func(s uintptr, typ, signal string) int32
	otcSessionSendSignalTo func(s uintptr, typ, signal string, c uintptr) int32
	otcSessionGetID        func(s uintptr) string

	otcPublisherNew             func(name string, capturer, callbacks unsafe.Pointer) uintptr
	otcPublisherDelete          func(p uintptr) int32
	otcPublisherGetStream       func(p uintptr) uintptr
	otcPublisherGetSession      func(p uintptr) uintptr
	otcPublisherSetPublishVideo func(p uintptr, on int32) int32
	otcPublisherSetPublishAudio func(p uintptr, on int32) int32
	otcPublisherGetPublishVideo func(p uintptr) int32
	otcPublisherGetPublishAudio func(p uintptr) int32
	otcPublisherSetVideoType    func(p uintptr, t int32) int32
	otcPublisherGetID           func(p uintptr) string
	otcPublisherGetName         func(p uintptr) string

	otcSubscriberNew                 func(stream uintptr, callbacks unsafe.Pointer) uintptr
	otcSubscriberDelete              func(s uintptr) int32
	otcSubscriberGetStream           func(s uintptr) uintptr
	otcSubscriberGetSession          func(s uintptr) uintptr
	otcSubscriberSetSubscribeToVideo func(s uintptr, on int32) int32
	otcSubscriberSetSubscribeToAudio func(s uintptr, on int32) int32
	otcSubscriberGetSubscribeToVideo func(s uintptr) int32
	otcSubscriberGetSubscribeToAudio func(s uintptr) int32
	otcSubscriberSetPrefResolution   func(s uintptr, w, h uint32) int32
	otcSubscriberGetPrefResolution   func(s uintptr, w, h *uint32) int32
	otcSubscriberSetPrefFramerate    func(s uintptr, fps float32) int32
	otcSubscriberGetPrefFramerate    func(s uintptr, fps *float32) int32
	otcSubscriberGetID               func(s uintptr) string

	otcStreamCopy          func(s uintptr) uintptr
	otcStreamDelete        func(s uintptr) int32
	otcStreamGetID         func(s uintptr) string
	otcStreamGetName       func(s uintptr) string
	otcStreamHasVideo      func(s uintptr) int32
	otcStreamHasVideoTrack func(s uintptr) int32
	otcStreamHasAudio      func(s uintptr) int32
	otcStreamHasAudioTrack func(s uintptr) int32
	otcStreamVideoWidth    func(s uintptr) int32
	otcStreamVideoHeight   func(s uintptr) int32
	otcStreamCreationTime  func(s uintptr) int64
	otcStreamVideoType     func(s uintptr) int32
	otcStreamConnection    func(s uintptr) uintptr

	otcConnectionCopy         func(c uintptr) uintptr
	otcConnectionDelete       func(c uintptr) int32
	otcConnectionGetID        func(c uintptr) string
	otcConnectionCreationTime func(c uintptr) int64
	otcConnectionGetData      func(c uintptr) string
	otcConnectionSessionID    func(c uintptr) string

	otcFrameNew          func(format, width, height int32, buf unsafe.Pointer) uintptr
	otcFrameDelete       func(f uintptr) int32
	otcFrameCopy         func(f uintptr) uintptr
	otcFrameConvert      func(format int32, f uintptr) uintptr
	otcFrameBuffer       func(f uintptr) unsafe.Pointer
	otcFrameBufferSize   func(f uintptr) uintptr
	otcFrameTimestamp    func(f uintptr) int64
	otcFrameSetTimestamp func(f uintptr, ts int64) int32
	otcFrameWidth        func(f uintptr) int32
	otcFrameHeight       func(f uintptr) int32
	otcFramePlanes       func(f uintptr) uintptr
	otcFrameFormat       func(f uintptr) int32
	otcFramePlaneSize    func(f uintptr, plane int32) uintptr
	otcFramePlaneStride  func(f uintptr, plane int32) int32

	otcCapturerProvideFrame func(c uintptr, rotation int32, f uintptr) int32
}

// Open loads libopentok and binds every function the wrapper uses. An empty
// path searches the platform library paths.
func Open(path string) (*Library, error) {
	var (
		lib uintptr
		err error
	)
	if path != "" {
		lib, err = tryOpen(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, path, err)
		}
	} else {
		lib, path, err = loadLibrary("opentok", libraryVersions)
		if err != nil {
			return nil, err
		}
	}

	l := &Library{
		lib:    lib,
		path:   path,
		pins:   make(map[Handle]*runtime.Pinner),
		frames: make(map[Handle]*runtime.Pinner),
	}
	l.bind()
	return l, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string { return l.path }

// Close unloads the library. It is only safe before Init succeeds or after
// Init fails: once the engine has started, its threads and the trampolines
// it holds may outlive otc_destroy, so a running engine is never unloaded.
func (l *Library) Close() error {
	if l.lib == 0 {
		return nil
	}
	err := purego.Dlclose(l.lib)
	l.lib = 0
	return err
}

func (l *Library) bind() {
	reg := func(fptr any, name string) { purego.RegisterLibFunc(fptr, l.lib, name) }

	reg(&l.otcInit, "otc_init")
	reg(&l.otcDestroy, "otc_destroy")
	reg(&l.otcLogEnable, "otc_log_enable")
	reg(&l.otcLogSetLogger, "otc_log_set_logger_callback")
	reg(&l.otcSetAudioDevice, "otc_set_audio_device")
	reg(&l.otcAudioWriteCapture, "otc_audio_device_write_capture_data")
	reg(&l.otcAudioReadRender, "otc_audio_device_read_render_data")

	reg(&l.otcSessionNew, "otc_session_new")
	reg(&l.otcSessionDelete, "otc_session_delete")
	reg(&l.otcSessionConnect, "otc_session_connect")
	reg(&l.otcSessionDisconnect, "otc_session_disconnect")
	reg(&l.otcSessionPublish, "otc_session_publish")
	reg(&l.otcSessionUnpublish, "otc_session_unpublish")
	reg(&l.otcSessionSubscribe, "otc_session_subscribe")
	reg(&l.otcSessionUnsubscribe, "otc_session_unsubscribe")
	reg(&l.otcSessionSendSignal, "otc_session_send_signal")
	reg(&l.otcSessionSendSignalTo, "otc_session_send_signal_to_connection")
	reg(&l.otcSessionGetID, "otc_session_get_id")

	reg(&l.otcPublisherNew, "otc_publisher_new")
	reg(&l.otcPublisherDelete, "otc_publisher_delete")
	reg(&l.otcPublisherGetStream, "otc_publisher_get_stream")
	reg(&l.otcPublisherGetSession, "otc_publisher_get_session")
	reg(&l.otcPublisherSetPublishVideo, "otc_publisher_set_publish_video")
	reg(&l.otcPublisherSetPublishAudio, "otc_publisher_set_publish_audio")
	reg(&l.otcPublisherGetPublishVideo, "otc_publisher_get_publish_video")
	reg(&l.otcPublisherGetPublishAudio, "otc_publisher_get_publish_audio")
	reg(&l.otcPublisherSetVideoType, "otc_publisher_set_video_type")
	reg(&l.otcPublisherGetID, "otc_publisher_get_publisher_id")
	reg(&l.otcPublisherGetName, "otc_publisher_get_name")

	reg(&l.otcSubscriberNew, "otc_subscriber_new")
	reg(&l.otcSubscriberDelete, "otc_subscriber_delete")
	reg(&l.otcSubscriberGetStream, "otc_subscriber_get_stream")
	reg(&l.otcSubscriberGetSession, "otc_subscriber_get_session")
	reg(&l.otcSubscriberSetSubscribeToVideo, "otc_subscriber_set_subscribe_to_video")
	reg(&l.otcSubscriberSetSubscribeToAudio, "otc_subscriber_set_subscribe_to_audio")
	reg(&l.otcSubscriberGetSubscribeToVideo, "otc_subscriber_get_subscribe_to_video")
	reg(&l.otcSubscriberGetSubscribeToAudio, "otc_subscriber_get_subscribe_to_audio")
	reg(&l.otcSubscriberSetPrefResolution, "otc_subscriber_set_preferred_resolution")
	reg(&l.otcSubscriberGetPrefResolution, "otc_subscriber_get_preferred_resolution")
	reg(&l.otcSubscriberSetPrefFramerate, "otc_subscriber_set_preferred_framerate")
	reg(&l.otcSubscriberGetPrefFramerate, "otc_subscriber_get_preferred_framerate")
	reg(&l.otcSubscriberGetID, "otc_subscriber_get_subscriber_id")

	reg(&l.otcStreamCopy, "otc_stream_copy")
	reg(&l.otcStreamDelete, "otc_stream_delete")
	reg(&l.otcStreamGetID, "otc_stream_get_id")
	reg(&l.otcStreamGetName, "otc_stream_get_name")
	reg(&l.otcStreamHasVideo, "otc_stream_has_video")
	reg(&l.otcStreamHasVideoTrack, "otc_stream_has_video_track")
	reg(&l.otcStreamHasAudio, "otc_stream_has_audio")
	reg(&l.otcStreamHasAudioTrack, "otc_stream_has_audio_track")
	reg(&l.otcStreamVideoWidth, "otc_stream_get_video_width")
	reg(&l.otcStreamVideoHeight, "otc_stream_get_video_height")
	reg(&l.otcStreamCreationTime, "otc_stream_get_creation_time")
	reg(&l.otcStreamVideoType, "otc_stream_get_video_type")
	reg(&l.otcStreamConnection, "otc_stream_get_connection")

	reg(&l.otcConnectionCopy, "otc_connection_copy")
	reg(&l.otcConnectionDelete, "otc_connection_delete")
	reg(&l.otcConnectionGetID, "otc_connection_get_id")
	reg(&l.otcConnectionCreationTime, "otc_connection_get_creation_time")
	reg(&l.otcConnectionGetData, "otc_connection_get_data")
	reg(&l.otcConnectionSessionID, "otc_connection_get_session_id")

	reg(&l.otcFrameNew, "otc_video_frame_new")
	reg(&l.otcFrameDelete, "otc_video_frame_delete")
	reg(&l.otcFrameCopy, "otc_video_frame_copy")
	reg(&l.otcFrameConvert, "otc_video_frame_convert")
	reg(&l.otcFrameBuffer, "otc_video_frame_get_buffer")
	reg(&l.otcFrameBufferSize, "otc_video_frame_get_buffer_size")
	reg(&l.otcFrameTimestamp, "otc_video_frame_get_timestamp")
	reg(&l.otcFrameSetTimestamp, "otc_video_frame_set_timestamp")
	reg(&l.otcFrameWidth, "otc_video_frame_get_width")
	reg(&l.otcFrameHeight, "otc_video_frame_get_height")
	reg(&l.otcFramePlanes, "otc_video_frame_get_number_of_planes")
	reg(&l.otcFrameFormat, "otc_video_frame_get_format")
	reg(&l.otcFramePlaneSize, "otc_video_frame_get_plane_size")
	reg(&l.otcFramePlaneStride, "otc_video_frame_get_plane_stride")

	reg(&l.otcCapturerProvideFrame, "otc_video_capturer_provide_frame")
}

// loadLibrary opens the first candidate the dynamic loader accepts.
func loadLibrary(name string, versions []int) (uintptr, string, error) {
	for _, path := range platform.Candidates(name, versions, LibraryDirEnv) {
		if lib, err := tryOpen(path); err == nil {
			return lib, path, nil
		}
	}
	return 0, "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func pinAll(ptrs ...unsafe.Pointer) *runtime.Pinner {
	p := new(runtime.Pinner)
	for _, ptr := range ptrs {
		if ptr != nil {
			p.Pin(ptr)
		}
	}
	return p
}

// keep records the pins for h, or releases them when creation failed.
func (l *Library) keep(h Handle, p *runtime.Pinner) {
	if h == 0 {
		p.Unpin()
		return
	}
	l.mu.Lock()
	l.pins[h] = p
	l.mu.Unlock()
}

func (l *Library) unpin(h Handle) {
	l.mu.Lock()
	p := l.pins[h]
	delete(l.pins, h)
	l.mu.Unlock()
	if p != nil {
		p.Unpin()
	}
}

func (l *Library) Init(d Dispatcher) Status {
	initTrampolines()
	setDispatcher(d)
	st := Status(l.otcInit(nil))
	if st != Success {
		setDispatcher(nil)
	}
	return st
}

func (l *Library) Destroy() Status {
	st := Status(l.otcDestroy())
	l.otcLogSetLogger(0)
	setDispatcher(nil)

	l.mu.Lock()
	defer l.mu.Unlock()
	for h, p := range l.pins {
		p.Unpin()
		delete(l.pins, h)
	}
	for h, p := range l.frames {
		p.Unpin()
		delete(l.frames, h)
	}
	if l.audio != nil {
		l.audio.Unpin()
		l.audio = nil
	}
	return st
}

func (l *Library) LogEnable(level int32) { l.otcLogEnable(level) }

func (l *Library) SetLogger(enabled bool) {
	if !enabled {
		l.otcLogSetLogger(0)
		return
	}
	initTrampolines()
	l.otcLogSetLogger(loggerTrampoline)
}

func (l *Library) SetAudioDevice(token uintptr) Status {
	initTrampolines()
	table := new(audioDeviceCallbacks)
	*table = audioTemplate
	table.userData = token

	p := new(runtime.Pinner)
	p.Pin(table)
	st := Status(l.otcSetAudioDevice(unsafe.Pointer(table)))

	l.mu.Lock()
	old := l.audio
	l.audio = p
	l.mu.Unlock()
	if old != nil {
		old.Unpin()
	}
	return st
}

func (l *Library) AudioWriteCaptureData(samples []int16) Status {
	if len(samples) == 0 {
		return InvalidParam
	}
	st := Status(l.otcAudioWriteCapture(unsafe.Pointer(&samples[0]), uintptr(len(samples))))
	runtime.KeepAlive(samples)
	return st
}

func (l *Library) AudioReadRenderData(buf []int16) int {
	if len(buf) == 0 {
		return 0
	}
	n := l.otcAudioReadRender(unsafe.Pointer(&buf[0]), uintptr(len(buf)))
	runtime.KeepAlive(buf)
	return int(n)
}

func (l *Library) SessionNew(apiKey, sessionID string, token uintptr) Handle {
	initTrampolines()
	table := new(sessionCallbacks)
	*table = sessionTemplate
	table.userData = token

	p := pinAll(unsafe.Pointer(table))
	h := Handle(l.otcSessionNew(apiKey, sessionID, unsafe.Pointer(table)))
	l.keep(h, p)
	return h
}

func (l *Library) SessionDelete(s Handle) Status {
	st := Status(l.otcSessionDelete(uintptr(s)))
	l.unpin(s)
	return st
}

func (l *Library) SessionConnect(s Handle, token string) Status {
	return Status(l.otcSessionConnect(uintptr(s), token))
}

func (l *Library) SessionDisconnect(s Handle) Status {
	return Status(l.otcSessionDisconnect(uintptr(s)))
}

func (l *Library) SessionPublish(s, p Handle) Status {
	return Status(l.otcSessionPublish(uintptr(s), uintptr(p)))
}

func (l *Library) SessionUnpublish(s, p Handle) Status {
	return Status(l.otcSessionUnpublish(uintptr(s), uintptr(p)))
}

func (l *Library) SessionSubscribe(s, sub Handle) Status {
	return Status(l.otcSessionSubscribe(uintptr(s), uintptr(sub)))
}

func (l *Library) SessionUnsubscribe(s, sub Handle) Status {
	return Status(l.otcSessionUnsubscribe(uintptr(s), uintptr(sub)))
}

func (l *Library) SessionSendSignal(s Handle, typ, signal string) Status {
	return Status(l.otcSessionSendSignal(uintptr(s), typ, signal))
}

func (l *Library) SessionSendSignalToConnection(s Handle, typ, signal string, c Handle) Status {
	return Status(l.otcSessionSendSignalTo(uintptr(s), typ, signal, uintptr(c)))
}

func (l *Library) SessionID(s Handle) string { return l.otcSessionGetID(uintptr(s)) }

func (l *Library) PublisherNew(name string, capturerToken, token uintptr) Handle {
	initTrampolines()
	table := new(publisherCallbacks)
	*table = publisherTemplate
	table.userData = token

	var capturer *videoCapturerCallbacks
	if capturerToken != 0 {
		capturer = new(videoCapturerCallbacks)
		*capturer = capturerTemplate
		capturer.userData = capturerToken
	}

	p := pinAll(unsafe.Pointer(table), unsafe.Pointer(capturer))
	h := Handle(l.otcPublisherNew(name, unsafe.Pointer(capturer), unsafe.Pointer(table)))
	l.keep(h, p)
	return h
}

func (l *Library) PublisherDelete(p Handle) Status {
	st := Status(l.otcPublisherDelete(uintptr(p)))
	l.unpin(p)
	return st
}

func (l *Library) PublisherStream(p Handle) Handle {
	return Handle(l.otcPublisherGetStream(uintptr(p)))
}

func (l *Library) PublisherSession(p Handle) Handle {
	return Handle(l.otcPublisherGetSession(uintptr(p)))
}

func (l *Library) PublisherSetPublishVideo(p Handle, on bool) Status {
	return Status(l.otcPublisherSetPublishVideo(uintptr(p), cBool(on)))
}

func (l *Library) PublisherSetPublishAudio(p Handle, on bool) Status {
	return Status(l.otcPublisherSetPublishAudio(uintptr(p), cBool(on)))
}

func (l *Library) PublisherPublishVideo(p Handle) bool {
	return l.otcPublisherGetPublishVideo(uintptr(p)) != 0
}

func (l *Library) PublisherPublishAudio(p Handle) bool {
	return l.otcPublisherGetPublishAudio(uintptr(p)) != 0
}

func (l *Library) PublisherSetVideoType(p Handle, t int32) Status {
	return Status(l.otcPublisherSetVideoType(uintptr(p), t))
}

func (l *Library) PublisherID(p Handle) string { return l.otcPublisherGetID(uintptr(p)) }
func (l *Library) PublisherName(p Handle) string { return l.otcPublisherGetName(uintptr(p)) }

func (l *Library) SubscriberNew(stream Handle, token uintptr) Handle {
	initTrampolines()
	table := new(subscriberCallbacks)
	*table = subscriberTemplate
	table.userData = token

	p := pinAll(unsafe.Pointer(table))
	h := Handle(l.otcSubscriberNew(uintptr(stream), unsafe.Pointer(table)))
	l.keep(h, p)
	return h
}

func (l *Library) SubscriberDelete(s Handle) Status {
	st := Status(l.otcSubscriberDelete(uintptr(s)))
	l.unpin(s)
	return st
}

func (l *Library) SubscriberStream(s Handle) Handle {
	return Handle(l.otcSubscriberGetStream(uintptr(s)))
}

func (l *Library) SubscriberSession(s Handle) Handle {
	return Handle(l.otcSubscriberGetSession(uintptr(s)))
}

func (l *Library) SubscriberSetSubscribeToVideo(s Handle, on bool) Status {
	return Status(l.otcSubscriberSetSubscribeToVideo(uintptr(s), cBool(on)))
}

func (l *Library) SubscriberSetSubscribeToAudio(s Handle, on bool) Status {
	return Status(l.otcSubscriberSetSubscribeToAudio(uintptr(s), cBool(on)))
}

func (l *Library) SubscriberSubscribeToVideo(s Handle) bool {
	return l.otcSubscriberGetSubscribeToVideo(uintptr(s)) != 0
}

func (l *Library) SubscriberSubscribeToAudio(s Handle) bool {
	return l.otcSubscriberGetSubscribeToAudio(uintptr(s)) != 0
}

func (l *Library) SubscriberSetPreferredResolution(s Handle, w, h uint32) Status {
	return Status(l.otcSubscriberSetPrefResolution(uintptr(s), w, h))
}

func (l *Library) SubscriberPreferredResolution(s Handle) (uint32, uint32, Status) {
	var w, h uint32
	st := Status(l.otcSubscriberGetPrefResolution(uintptr(s), &w, &h))
	return w, h, st
}

func (l *Library) SubscriberSetPreferredFramerate(s Handle, fps float32) Status {
	return Status(l.otcSubscriberSetPrefFramerate(uintptr(s), fps))
}

func (l *Library) SubscriberPreferredFramerate(s Handle) (float32, Status) {
	var fps float32
	st := Status(l.otcSubscriberGetPrefFramerate(uintptr(s), &fps))
	return fps, st
}

func (l *Library) SubscriberID(s Handle) string { return l.otcSubscriberGetID(uintptr(s)) }

func (l *Library) StreamCopy(s Handle) Handle { return Handle(l.otcStreamCopy(uintptr(s))) }
func (l *Library) StreamDelete(s Handle) Status { return Status(l.otcStreamDelete(uintptr(s))) }
func (l *Library) StreamID(s Handle) string { return l.otcStreamGetID(uintptr(s)) }
func (l *Library) StreamName(s Handle) string { return l.otcStreamGetName(uintptr(s)) }
func (l *Library) StreamHasVideo(s Handle) bool { return l.otcStreamHasVideo(uintptr(s)) != 0 }
func (l *Library) StreamHasAudio(s Handle) bool { return l.otcStreamHasAudio(uintptr(s)) != 0 }
func (l *Library) StreamVideoWidth(s Handle) int32 { return l.otcStreamVideoWidth(uintptr(s)) }
func (l *Library) StreamVideoType(s Handle) int32 { return l.otcStreamVideoType(uintptr(s)) }

func (l *Library) StreamHasVideoTrack(s Handle) bool {
	return l.otcStreamHasVideoTrack(uintptr(s)) != 0
}

func (l *Library) StreamHasAudioTrack(s Handle) bool {
	return l.otcStreamHasAudioTrack(uintptr(s)) != 0
}

func (l *Library) StreamVideoHeight(s Handle) int32 { return l.otcStreamVideoHeight(uintptr(s)) }
func (l *Library) StreamCreationTime(s Handle) int64 {
	return l.otcStreamCreationTime(uintptr(s))
}

func (l *Library) StreamConnection(s Handle) Handle {
	return Handle(l.otcStreamConnection(uintptr(s)))
}

func (l *Library) ConnectionCopy(c Handle) Handle { return Handle(l.otcConnectionCopy(uintptr(c))) }
func (l *Library) ConnectionDelete(c Handle) Status { return Status(l.otcConnectionDelete(uintptr(c))) }
func (l *Library) ConnectionID(c Handle) string { return l.otcConnectionGetID(uintptr(c)) }
func (l *Library) ConnectionData(c Handle) string { return l.otcConnectionGetData(uintptr(c)) }

func (l *Library) ConnectionCreationTime(c Handle) int64 {
	return l.otcConnectionCreationTime(uintptr(c))
}

func (l *Library) ConnectionSessionID(c Handle) string {
	return l.otcConnectionSessionID(uintptr(c))
}

// VideoFrameNew wraps buffer without copying it; the buffer stays pinned
// until the frame is deleted.
func (l *Library) VideoFrameNew(format, width, height int32, buffer []byte) Handle {
	var ptr unsafe.Pointer
	if len(buffer) > 0 {
		ptr = unsafe.Pointer(&buffer[0])
	}
	p := pinAll(ptr)
	h := Handle(l.otcFrameNew(format, width, height, ptr))
	if h == 0 {
		p.Unpin()
		return 0
	}
	l.mu.Lock()
	l.frames[h] = p
	l.mu.Unlock()
	return h
}

func (l *Library) VideoFrameDelete(f Handle) Status {
	st := Status(l.otcFrameDelete(uintptr(f)))
	l.mu.Lock()
	p := l.frames[f]
	delete(l.frames, f)
	l.mu.Unlock()
	if p != nil {
		p.Unpin()
	}
	return st
}

func (l *Library) VideoFrameCopy(f Handle) Handle { return Handle(l.otcFrameCopy(uintptr(f))) }

func (l *Library) VideoFrameConvert(format int32, f Handle) Handle {
	return Handle(l.otcFrameConvert(format, uintptr(f)))
}

// VideoFrameBuffer copies the frame's pixel data.
func (l *Library) VideoFrameBuffer(f Handle) []byte {
	ptr := l.otcFrameBuffer(uintptr(f))
	n := l.otcFrameBufferSize(uintptr(f))
	if ptr == nil || n == 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(ptr), n))
	return out
}

func (l *Library) VideoFrameTimestamp(f Handle) int64 { return l.otcFrameTimestamp(uintptr(f)) }

func (l *Library) VideoFrameSetTimestamp(f Handle, ts int64) Status {
	return Status(l.otcFrameSetTimestamp(uintptr(f), ts))
}

func (l *Library) VideoFrameWidth(f Handle) int32 { return l.otcFrameWidth(uintptr(f)) }
func (l *Library) VideoFrameHeight(f Handle) int32 { return l.otcFrameHeight(uintptr(f)) }
func (l *Library) VideoFrameFormat(f Handle) int32 { return l.otcFrameFormat(uintptr(f)) }

func (l *Library) VideoFrameNumberOfPlanes(f Handle) int { return int(l.otcFramePlanes(uintptr(f))) }

func (l *Library) VideoFramePlaneSize(f Handle, plane int32) int {
	return int(l.otcFramePlaneSize(uintptr(f), plane))
}

func (l *Library) VideoFramePlaneStride(f Handle, plane int32) int32 {
	return l.otcFramePlaneStride(uintptr(f), plane)
}

func (l *Library) VideoCapturerProvideFrame(c Handle, rotation int32, f Handle) Status {
	return Status(l.otcCapturerProvideFrame(uintptr(c), rotation, uintptr(f)))
}

var _ Engine = (*Library)(nil)
