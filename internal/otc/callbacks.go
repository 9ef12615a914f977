//go:build !ios && !android && (amd64 || arm64)

package otc

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// C layouts of the engine's callback tables. Field order must match the
// headers exactly: function pointers, then user_data, then reserved.

type sessionCallbacks struct {
	onConnected                    uintptr
	onDisconnected                 uintptr
	onConnectionCreated            uintptr
	onConnectionDropped            uintptr
	onStreamReceived               uintptr
	onStreamDropped                uintptr
	onStreamHasAudioChanged        uintptr
	onStreamHasVideoChanged        uintptr
	onStreamVideoDimensionsChanged uintptr
	onStreamVideoTypeChanged       uintptr
	onSignalReceived               uintptr
	onReconnectionStarted          uintptr
	onReconnected                  uintptr
	onArchiveStarted               uintptr
	onArchiveStopped               uintptr
	onError                        uintptr
	userData                       uintptr
	reserved                       uintptr
}

type publisherCallbacks struct {
	onStreamCreated     uintptr
	onStreamDestroyed   uintptr
	onRenderFrame       uintptr
	onAudioLevelUpdated uintptr
	onAudioStats        uintptr
	onVideoStats        uintptr
	onError             uintptr
	userData            uintptr
	reserved            uintptr
}

type subscriberCallbacks struct {
	onConnected                 uintptr
	onDisconnected              uintptr
	onReconnected               uintptr
	onRenderFrame               uintptr
	onVideoDisabled             uintptr
	onVideoEnabled              uintptr
	onAudioDisabled             uintptr
	onAudioEnabled              uintptr
	onVideoDataReceived         uintptr
	onVideoDisableWarning       uintptr
	onVideoDisableWarningLifted uintptr
	onAudioStats                uintptr // stats arrive by value; not supported by purego callbacks
	onVideoStats                uintptr // same
	onAudioLevelUpdated         uintptr
	onError                     uintptr
	userData                    uintptr
	reserved                    uintptr
}

type videoCapturerCallbacks struct {
	init               uintptr
	destroy            uintptr
	start              uintptr
	stop               uintptr
	getCaptureSettings uintptr
	userData           uintptr
	reserved           uintptr
}

type audioDeviceCallbacks struct {
	init                     uintptr
	destroy                  uintptr
	initCapturer             uintptr
	destroyCapturer          uintptr
	startCapturer            uintptr
	stopCapturer             uintptr
	isCapturerInitialized    uintptr
	isCapturerStarted        uintptr
	getEstimatedCaptureDelay uintptr
	getCaptureSettings       uintptr
	initRenderer             uintptr
	destroyRenderer          uintptr
	startRenderer            uintptr
	stopRenderer             uintptr
	isRendererInitialized    uintptr
	isRendererStarted        uintptr
	getEstimatedRenderDelay  uintptr
	getRenderSettings        uintptr
	userData                 uintptr
	reserved                 uintptr
}

type cVideoCapturerSettings struct {
	format              int32
	width               int32
	height              int32
	fps                 int32
	expectedDelay       int32
	mirrorOnLocalRender int32
}

type cAudioSettings struct {
	samplingRate     int32
	numberOfChannels int32
}

type cPublisherAudioStats struct {
	connectionID *byte
	subscriberID *byte
	packetsLost  int64
	packetsSent  int64
	bytesSent    int64
	audioLevel   float32
	timestamp    float64
	startTime    float64
}

type cPublisherVideoStats struct {
	connectionID *byte
	subscriberID *byte
	packetsLost  int64
	packetsSent  int64
	bytesSent    int64
	timestamp    float64
	startTime    float64
}

// The dispatcher that trampolines forward to. The engine is a process-wide
// singleton, so there is at most one.
var active struct {
	sync.RWMutex
	d Dispatcher
}

func setDispatcher(d Dispatcher) {
	active.Lock()
	defer active.Unlock()
	active.d = d
}

func dispatcher() Dispatcher {
	active.RLock()
	defer active.RUnlock()
	return active.d
}

// Templates holding one trampoline per event kind. purego limits how many
// callbacks a process may create, so they are built exactly once and copied
// into each per-object table.
var (
	trampolineOnce sync.Once

	sessionTemplate    sessionCallbacks
	publisherTemplate  publisherCallbacks
	subscriberTemplate subscriberCallbacks
	capturerTemplate   videoCapturerCallbacks
	audioTemplate      audioDeviceCallbacks
	loggerTrampoline   uintptr
)

func cBool(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func initTrampolines() {
	trampolineOnce.Do(func() {
		sessionTemplate = sessionCallbacks{
			onConnected: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionConnected(Handle(s), ud)
				}
			}),
			onDisconnected: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionDisconnected(Handle(s), ud)
				}
			}),
			onConnectionCreated: purego.NewCallback(func(_ purego.CDecl, s, ud, c uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionConnectionCreated(Handle(s), ud, Handle(c))
				}
			}),
			onConnectionDropped: purego.NewCallback(func(_ purego.CDecl, s, ud, c uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionConnectionDropped(Handle(s), ud, Handle(c))
				}
			}),
			onStreamReceived: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionStreamReceived(Handle(s), ud, Handle(st))
				}
			}),
			onStreamDropped: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionStreamDropped(Handle(s), ud, Handle(st))
				}
			}),
			onStreamHasAudioChanged: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr, v int32) {
				if d := dispatcher(); d != nil {
					d.SessionStreamHasAudioChanged(Handle(s), ud, Handle(st), v != 0)
				}
			}),
			onStreamHasVideoChanged: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr, v int32) {
				if d := dispatcher(); d != nil {
					d.SessionStreamHasVideoChanged(Handle(s), ud, Handle(st), v != 0)
				}
			}),
			onStreamVideoDimensionsChanged: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr, w, h int32) {
				if d := dispatcher(); d != nil {
					d.SessionStreamVideoDimensionsChanged(Handle(s), ud, Handle(st), w, h)
				}
			}),
			onStreamVideoTypeChanged: purego.NewCallback(func(_ purego.CDecl, s, ud, st uintptr, t int32) {
				if d := dispatcher(); d != nil {
					d.SessionStreamVideoTypeChanged(Handle(s), ud, Handle(st), t)
				}
			}),
			onSignalReceived: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr, typ, sig *byte, c uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionSignalReceived(Handle(s), ud, goString(typ), goString(sig), Handle(c))
				}
			}),
			onReconnectionStarted: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionReconnectionStarted(Handle(s), ud)
				}
			}),
			onReconnected: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SessionReconnected(Handle(s), ud)
				}
			}),
			onArchiveStarted: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr, id, name *byte) {
				if d := dispatcher(); d != nil {
					d.SessionArchiveStarted(Handle(s), ud, goString(id), goString(name))
				}
			}),
			onArchiveStopped: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr, id *byte) {
				if d := dispatcher(); d != nil {
					d.SessionArchiveStopped(Handle(s), ud, goString(id))
				}
			}),
			onError: purego.NewCallback(func(_ purego.CDecl, s, ud uintptr, msg *byte, code int32) {
				if d := dispatcher(); d != nil {
					d.SessionError(Handle(s), ud, goString(msg), code)
				}
			}),
		}

		publisherTemplate = publisherCallbacks{
			onStreamCreated: purego.NewCallback(func(_ purego.CDecl, p, ud, st uintptr) {
				if d := dispatcher(); d != nil {
					d.PublisherStreamCreated(Handle(p), ud, Handle(st))
				}
			}),
			onStreamDestroyed: purego.NewCallback(func(_ purego.CDecl, p, ud, st uintptr) {
				if d := dispatcher(); d != nil {
					d.PublisherStreamDestroyed(Handle(p), ud, Handle(st))
				}
			}),
			onRenderFrame: purego.NewCallback(func(_ purego.CDecl, p, ud, f uintptr) {
				if d := dispatcher(); d != nil {
					d.PublisherRenderFrame(Handle(p), ud, Handle(f))
				}
			}),
			onAudioLevelUpdated: purego.NewCallback(func(_ purego.CDecl, p, ud uintptr, level float32) {
				if d := dispatcher(); d != nil {
					d.PublisherAudioLevelUpdated(Handle(p), ud, level)
				}
			}),
			onAudioStats: purego.NewCallback(func(_ purego.CDecl, p, ud uintptr, stats *cPublisherAudioStats, n uintptr) {
				d := dispatcher()
				if d == nil || stats == nil || n == 0 {
					return
				}
				raw := unsafe.Slice(stats, n)
				out := make([]PublisherAudioStats, len(raw))
				for i, s := range raw {
					out[i] = PublisherAudioStats{
						ConnectionID: goString(s.connectionID),
						SubscriberID: goString(s.subscriberID),
						PacketsLost:  s.packetsLost,
						PacketsSent:  s.packetsSent,
						BytesSent:    s.bytesSent,
						AudioLevel:   s.audioLevel,
						Timestamp:    s.timestamp,
						StartTime:    s.startTime,
					}
				}
				d.PublisherAudioStats(Handle(p), ud, out)
			}),
			onVideoStats: purego.NewCallback(func(_ purego.CDecl, p, ud uintptr, stats *cPublisherVideoStats, n uintptr) {
				d := dispatcher()
				if d == nil || stats == nil || n == 0 {
					return
				}
				raw := unsafe.Slice(stats, n)
				out := make([]PublisherVideoStats, len(raw))
				for i, s := range raw {
					out[i] = PublisherVideoStats{
						ConnectionID: goString(s.connectionID),
						SubscriberID: goString(s.subscriberID),
						PacketsLost:  s.packetsLost,
						PacketsSent:  s.packetsSent,
						BytesSent:    s.bytesSent,
						Timestamp:    s.timestamp,
						StartTime:    s.startTime,
					}
				}
				d.PublisherVideoStats(Handle(p), ud, out)
			}),
			onError: purego.NewCallback(func(_ purego.CDecl, p, ud uintptr, msg *byte, code int32) {
				if d := dispatcher(); d != nil {
					d.PublisherError(Handle(p), ud, goString(msg), code)
				}
			}),
		}

		subscriberTemplate = subscriberCallbacks{
			onConnected: purego.NewCallback(func(_ purego.CDecl, sub, ud, st uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberConnected(Handle(sub), ud, Handle(st))
				}
			}),
			onDisconnected: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberDisconnected(Handle(sub), ud)
				}
			}),
			onReconnected: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberReconnected(Handle(sub), ud)
				}
			}),
			onRenderFrame: purego.NewCallback(func(_ purego.CDecl, sub, ud, f uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberRenderFrame(Handle(sub), ud, Handle(f))
				}
			}),
			onVideoDisabled: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr, reason int32) {
				if d := dispatcher(); d != nil {
					d.SubscriberVideoDisabled(Handle(sub), ud, reason)
				}
			}),
			onVideoEnabled: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr, reason int32) {
				if d := dispatcher(); d != nil {
					d.SubscriberVideoEnabled(Handle(sub), ud, reason)
				}
			}),
			onAudioDisabled: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberAudioDisabled(Handle(sub), ud)
				}
			}),
			onAudioEnabled: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberAudioEnabled(Handle(sub), ud)
				}
			}),
			onVideoDataReceived: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberVideoDataReceived(Handle(sub), ud)
				}
			}),
			onVideoDisableWarning: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberVideoDisableWarning(Handle(sub), ud)
				}
			}),
			onVideoDisableWarningLifted: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr) {
				if d := dispatcher(); d != nil {
					d.SubscriberVideoDisableWarningLifted(Handle(sub), ud)
				}
			}),
			onAudioLevelUpdated: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr, level float32) {
				if d := dispatcher(); d != nil {
					d.SubscriberAudioLevelUpdated(Handle(sub), ud, level)
				}
			}),
			onError: purego.NewCallback(func(_ purego.CDecl, sub, ud uintptr, msg *byte, code int32) {
				if d := dispatcher(); d != nil {
					d.SubscriberError(Handle(sub), ud, goString(msg), code)
				}
			}),
		}

		capturerTemplate = videoCapturerCallbacks{
			init: purego.NewCallback(func(_ purego.CDecl, c, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.CapturerInit(Handle(c), ud))
				}
				return 0
			}),
			destroy: purego.NewCallback(func(_ purego.CDecl, c, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.CapturerDestroy(Handle(c), ud))
				}
				return 0
			}),
			start: purego.NewCallback(func(_ purego.CDecl, c, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.CapturerStart(Handle(c), ud))
				}
				return 0
			}),
			stop: purego.NewCallback(func(_ purego.CDecl, c, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.CapturerStop(Handle(c), ud))
				}
				return 0
			}),
			getCaptureSettings: purego.NewCallback(func(_ purego.CDecl, c, ud uintptr, out *cVideoCapturerSettings) int32 {
				d := dispatcher()
				if d == nil || out == nil {
					return 0
				}
				s, ok := d.CapturerSettings(Handle(c), ud)
				if !ok {
					return 0
				}
				*out = cVideoCapturerSettings{
					format:              s.Format,
					width:               s.Width,
					height:              s.Height,
					fps:                 s.FPS,
					expectedDelay:       s.ExpectedDelay,
					mirrorOnLocalRender: cBool(s.MirrorOnLocalRender),
				}
				return 1
			}),
		}

		audioTemplate = audioDeviceCallbacks{
			startCapturer: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.AudioStartCapturer(ud))
				}
				return 0
			}),
			stopCapturer: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.AudioStopCapturer(ud))
				}
				return 0
			}),
			getCaptureSettings: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr, out *cAudioSettings) int32 {
				d := dispatcher()
				if d == nil || out == nil {
					return 0
				}
				s, ok := d.AudioCaptureSettings(ud)
				if !ok {
					return 0
				}
				*out = cAudioSettings{samplingRate: s.SamplingRate, numberOfChannels: s.NumberOfChannels}
				return 1
			}),
			startRenderer: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.AudioStartRenderer(ud))
				}
				return 0
			}),
			stopRenderer: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr) int32 {
				if d := dispatcher(); d != nil {
					return cBool(d.AudioStopRenderer(ud))
				}
				return 0
			}),
			getRenderSettings: purego.NewCallback(func(_ purego.CDecl, _, ud uintptr, out *cAudioSettings) int32 {
				d := dispatcher()
				if d == nil || out == nil {
					return 0
				}
				s, ok := d.AudioRenderSettings(ud)
				if !ok {
					return 0
				}
				*out = cAudioSettings{samplingRate: s.SamplingRate, numberOfChannels: s.NumberOfChannels}
				return 1
			}),
		}

		loggerTrampoline = purego.NewCallback(func(_ purego.CDecl, msg *byte) {
			if d := dispatcher(); d != nil {
				d.Log(goString(msg))
			}
		})
	})
}

// maxCString bounds the terminator scan in goString. Signal data tops out at
// 8 KiB.
const maxCString = 64 << 10

// goString copies a NUL-terminated C string.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for n < maxCString && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice(p, n))
}
