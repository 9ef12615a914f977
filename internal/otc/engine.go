//go:build !ios && !android && (amd64 || arm64)

// Package otc is the boundary to the native OpenTok engine.
//
// Engine mirrors the C ABI one call per function with raw handles and
// integer statuses. Library implements it on top of libopentok through
// purego; the fake subpackage implements it in memory for tests. Events flow
// back through a Dispatcher, whose methods receive the user_data token that
// was passed when the callback table was installed. Strings handed to a
// Dispatcher are already Go copies; handles are borrowed and valid only for
// the duration of the call.
package otc

// Handle is an opaque engine pointer. It is never dereferenced on the Go side.
type Handle uintptr

// Status is an otc_status return code.
type Status int32

// Engine status codes (enum otc_error_code).
const (
	Success                   Status = 0
	InvalidParam              Status = 1
	Fatal                     Status = 2
	ConnectionDropped         Status = 1022
	TimedOut                  Status = 1542
	UnknownPublisherInstance  Status = 2003
	UnknownSubscriberInstance Status = 2004
	VideoCaptureFailed        Status = 3000
	CameraFailed              Status = 3010
	VideoRenderFailed         Status = 4000
	UnableToAccessMediaEngine Status = 5000
)

// VideoCapturerSettings mirrors struct otc_video_capturer_settings.
type VideoCapturerSettings struct {
	Format              int32
	Width               int32
	Height              int32
	FPS                 int32
	ExpectedDelay       int32
	MirrorOnLocalRender bool
}

// AudioSettings mirrors struct otc_audio_device_settings.
type AudioSettings struct {
	SamplingRate     int32
	NumberOfChannels int32
}

// PublisherAudioStats mirrors struct otc_publisher_audio_stats.
type PublisherAudioStats struct {
	ConnectionID string
	SubscriberID string
	PacketsLost  int64
	PacketsSent  int64
	BytesSent    int64
	AudioLevel   float32
	Timestamp    float64
	StartTime    float64
}

// PublisherVideoStats mirrors struct otc_publisher_video_stats.
type PublisherVideoStats struct {
	ConnectionID string
	SubscriberID string
	PacketsLost  int64
	PacketsSent  int64
	BytesSent    int64
	Timestamp    float64
	StartTime    float64
}

// Dispatcher receives engine events. Every method may be called from an
// engine-owned thread.
type Dispatcher interface {
	SessionConnected(session Handle, token uintptr)
	SessionDisconnected(session Handle, token uintptr)
	SessionConnectionCreated(session Handle, token uintptr, connection Handle)
	SessionConnectionDropped(session Handle, token uintptr, connection Handle)
	SessionStreamReceived(session Handle, token uintptr, stream Handle)
	SessionStreamDropped(session Handle, token uintptr, stream Handle)
	SessionStreamHasAudioChanged(session Handle, token uintptr, stream Handle, hasAudio bool)
	SessionStreamHasVideoChanged(session Handle, token uintptr, stream Handle, hasVideo bool)
	SessionStreamVideoDimensionsChanged(session Handle, token uintptr, stream Handle, width, height int32)
	SessionStreamVideoTypeChanged(session Handle, token uintptr, stream Handle, videoType int32)
	SessionSignalReceived(session Handle, token uintptr, signalType, signal string, connection Handle)
	SessionReconnectionStarted(session Handle, token uintptr)
	SessionReconnected(session Handle, token uintptr)
	SessionArchiveStarted(session Handle, token uintptr, archiveID, name string)
	SessionArchiveStopped(session Handle, token uintptr, archiveID string)
	SessionError(session Handle, token uintptr, message string, code int32)

	PublisherStreamCreated(publisher Handle, token uintptr, stream Handle)
	PublisherStreamDestroyed(publisher Handle, token uintptr, stream Handle)
	PublisherRenderFrame(publisher Handle, token uintptr, frame Handle)
	PublisherAudioLevelUpdated(publisher Handle, token uintptr, level float32)
	PublisherAudioStats(publisher Handle, token uintptr, stats []PublisherAudioStats)
	PublisherVideoStats(publisher Handle, token uintptr, stats []PublisherVideoStats)
	PublisherError(publisher Handle, token uintptr, message string, code int32)

	SubscriberConnected(subscriber Handle, token uintptr, stream Handle)
	SubscriberDisconnected(subscriber Handle, token uintptr)
	SubscriberReconnected(subscriber Handle, token uintptr)
	SubscriberRenderFrame(subscriber Handle, token uintptr, frame Handle)
	SubscriberVideoDisabled(subscriber Handle, token uintptr, reason int32)
	SubscriberVideoEnabled(subscriber Handle, token uintptr, reason int32)
	SubscriberAudioDisabled(subscriber Handle, token uintptr)
	SubscriberAudioEnabled(subscriber Handle, token uintptr)
	SubscriberVideoDataReceived(subscriber Handle, token uintptr)
	SubscriberVideoDisableWarning(subscriber Handle, token uintptr)
	SubscriberVideoDisableWarningLifted(subscriber Handle, token uintptr)
	SubscriberAudioLevelUpdated(subscriber Handle, token uintptr, level float32)
	SubscriberError(subscriber Handle, token uintptr, message string, code int32)

	CapturerInit(capturer Handle, token uintptr) bool
	CapturerDestroy(capturer Handle, token uintptr) bool
	CapturerStart(capturer Handle, token uintptr) bool
	CapturerStop(capturer Handle, token uintptr) bool
	CapturerSettings(capturer Handle, token uintptr) (VideoCapturerSettings, bool)

	AudioStartCapturer(token uintptr) bool
	AudioStopCapturer(token uintptr) bool
	AudioStartRenderer(token uintptr) bool
	AudioStopRenderer(token uintptr) bool
	AudioCaptureSettings(token uintptr) (AudioSettings, bool)
	AudioRenderSettings(token uintptr) (AudioSettings, bool)

	Log(message string)
}

// Engine is the set of native calls the wrapper makes.
//
// Calls taking a token install a callback table whose user_data is that
// token; the table stays valid until the matching delete.
type Engine interface {
	Init(d Dispatcher) Status
	Destroy() Status
	LogEnable(level int32)
	SetLogger(enabled bool)

	SetAudioDevice(token uintptr) Status
	AudioWriteCaptureData(samples []int16) Status
	AudioReadRenderData(buf []int16) int

	SessionNew(apiKey, sessionID string, token uintptr) Handle
	SessionDelete(session Handle) Status
	SessionConnect(session Handle, tokenString string) Status
	SessionDisconnect(session Handle) Status
	SessionPublish(session, publisher Handle) Status
	SessionUnpublish(session, publisher Handle) Status
	SessionSubscribe(session, subscriber Handle) Status
	SessionUnsubscribe(session, subscriber Handle) Status
	SessionSendSignal(session Handle, signalType, signal string) Status
	SessionSendSignalToConnection(session Handle, signalType, signal string, connection Handle) Status
	SessionID(session Handle) string

	// PublisherNew installs a capturer table keyed by capturerToken when it
	// is non-zero.
	PublisherNew(name string, capturerToken, token uintptr) Handle
	PublisherDelete(publisher Handle) Status
	PublisherStream(publisher Handle) Handle
	PublisherSession(publisher Handle) Handle
	PublisherSetPublishVideo(publisher Handle, on bool) Status
	PublisherSetPublishAudio(publisher Handle, on bool) Status
	PublisherPublishVideo(publisher Handle) bool
	PublisherPublishAudio(publisher Handle) bool
	PublisherSetVideoType(publisher Handle, videoType int32) Status
	PublisherID(publisher Handle) string
	PublisherName(publisher Handle) string

	SubscriberNew(stream Handle, token uintptr) Handle
	SubscriberDelete(subscriber Handle) Status
	SubscriberStream(subscriber Handle) Handle
	SubscriberSession(subscriber Handle) Handle
	SubscriberSetSubscribeToVideo(subscriber Handle, on bool) Status
	SubscriberSetSubscribeToAudio(subscriber Handle, on bool) Status
	SubscriberSubscribeToVideo(subscriber Handle) bool
	SubscriberSubscribeToAudio(subscriber Handle) bool
	SubscriberSetPreferredResolution(subscriber Handle, width, height uint32) Status
	SubscriberPreferredResolution(subscriber Handle) (width, height uint32, status Status)
	SubscriberSetPreferredFramerate(subscriber Handle, fps float32) Status
	SubscriberPreferredFramerate(subscriber Handle) (float32, Status)
	SubscriberID(subscriber Handle) string

	StreamCopy(stream Handle) Handle
	StreamDelete(stream Handle) Status
	StreamID(stream Handle) string
	StreamName(stream Handle) string
	StreamHasVideo(stream Handle) bool
	StreamHasVideoTrack(stream Handle) bool
	StreamHasAudio(stream Handle) bool
	StreamHasAudioTrack(stream Handle) bool
	StreamVideoWidth(stream Handle) int32
	StreamVideoHeight(stream Handle) int32
	StreamCreationTime(stream Handle) int64
	StreamVideoType(stream Handle) int32
	StreamConnection(stream Handle) Handle

	ConnectionCopy(connection Handle) Handle
	ConnectionDelete(connection Handle) Status
	ConnectionID(connection Handle) string
	ConnectionCreationTime(connection Handle) int64
	ConnectionData(connection Handle) string
	ConnectionSessionID(connection Handle) string

	VideoFrameNew(format int32, width, height int32, buffer []byte) Handle
	VideoFrameDelete(frame Handle) Status
	VideoFrameCopy(frame Handle) Handle
	VideoFrameConvert(format int32, frame Handle) Handle
	VideoFrameBuffer(frame Handle) []byte
	VideoFrameTimestamp(frame Handle) int64
	VideoFrameSetTimestamp(frame Handle, ts int64) Status
	VideoFrameWidth(frame Handle) int32
	VideoFrameHeight(frame Handle) int32
	VideoFrameNumberOfPlanes(frame Handle) int
	VideoFrameFormat(frame Handle) int32
	VideoFramePlaneSize(frame Handle, plane int32) int
	VideoFramePlaneStride(frame Handle, plane int32) int32

	VideoCapturerProvideFrame(capturer Handle, rotation int32, frame Handle) Status
}
