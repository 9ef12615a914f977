//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// VideoCapturerSettings describes the frames a custom capturer produces.
type VideoCapturerSettings struct {
	Format              FrameFormat
	Width               int
	Height              int
	FPS                 int
	ExpectedDelay       int
	MirrorOnLocalRender bool
}

// DefaultVideoCapturerSettings is 1280x720 RGBA32 at 30 fps.
func DefaultVideoCapturerSettings() VideoCapturerSettings {
	return VideoCapturerSettings{
		Format: FrameFormatRGBA32,
		Width:  1280,
		Height: 720,
		FPS:    30,
	}
}

// VideoCapturerListeners receives capturer lifecycle events from the
// engine. Nil fields are ignored.
type VideoCapturerListeners struct {
	OnInit    func(vc *VideoCapturer)
	OnDestroy func(vc *VideoCapturer)
	OnStart   func(vc *VideoCapturer)
	OnStop    func(vc *VideoCapturer)
}

// VideoCapturer feeds application frames to a publisher.
//
// The engine owns the capturer handle and supplies it when it initializes
// the capturer, some time after the publisher is created. Until then
// ProvideFrame fails with ErrNullHandle.
type VideoCapturer struct {
	managed[VideoCapturerListeners]
	settings VideoCapturerSettings
	running  atomic.Bool
	state    atomic.Int32
}

// Capturer ownership states.
const (
	capturerFree int32 = iota
	capturerBound
	capturerClosed
)

// NewVideoCapturer creates a capturer to pass to NewPublisher.
func (c *Context) NewVideoCapturer(settings VideoCapturerSettings, listeners VideoCapturerListeners) (*VideoCapturer, error) {
	if err := c.checkOpen("video capturer new"); err != nil {
		return nil, err
	}
	if settings.Width <= 0 || settings.Height <= 0 || settings.FPS <= 0 {
		return nil, newError(KindInvalidParam, "video capturer new")
	}
	vc := &VideoCapturer{settings: settings}
	vc.register(c, vc, listeners)
	return vc, nil
}

// Settings returns the settings reported to the engine.
func (vc *VideoCapturer) Settings() VideoCapturerSettings {
	return vc.settings
}

// Running reports whether the engine has started the capturer.
func (vc *VideoCapturer) Running() bool {
	return vc.running.Load()
}

// ProvideFrame hands a frame to the engine. The engine copies it; f stays
// owned by the caller.
func (vc *VideoCapturer) ProvideFrame(rotation int, f *VideoFrame) error {
	h, err := vc.live("video capturer provide frame")
	if err != nil {
		return err
	}
	if f == nil || f.ptr() == 0 {
		return newError(KindNullHandle, "video capturer provide frame")
	}
	return statusError(vc.ctx.engine.VideoCapturerProvideFrame(h, int32(rotation), f.ptr()), "video capturer provide frame")
}

// bind claims the capturer for a publisher. It fails with
// ErrAlreadyInitialized if another publisher holds it and ErrNullHandle once
// it has been closed.
func (vc *VideoCapturer) bind(op string) error {
	if vc.state.CompareAndSwap(capturerFree, capturerBound) {
		return nil
	}
	if vc.state.Load() == capturerClosed {
		return newError(KindNullHandle, op)
	}
	return newError(KindAlreadyInitialized, op)
}

func (vc *VideoCapturer) unbind() {
	vc.state.CompareAndSwap(capturerBound, capturerFree)
}

// engineInit records the engine handle. Only the first one is kept.
func (vc *VideoCapturer) engineInit(h otc.Handle) bool {
	if h == 0 || !vc.attach(h, func(otc.Handle) {}) && vc.ptr() != h {
		return false
	}
	vc.ctx.log.WithFields(logrus.Fields{
		"function": "VideoCapturer.init",
		"token":    vc.token,
	}).Debug("video capturer initialized")
	if fn := vc.listeners.OnInit; fn != nil {
		fn(vc)
	}
	return true
}

func (vc *VideoCapturer) engineStart() bool {
	vc.running.Store(true)
	if fn := vc.listeners.OnStart; fn != nil {
		fn(vc)
	}
	return true
}

func (vc *VideoCapturer) engineStop() bool {
	vc.running.Store(false)
	if fn := vc.listeners.OnStop; fn != nil {
		fn(vc)
	}
	return true
}

// engineDestroyed runs when the engine tears the capturer down.
func (vc *VideoCapturer) engineDestroyed() bool {
	vc.running.Store(false)
	if fn := vc.listeners.OnDestroy; fn != nil {
		fn(vc)
	}
	vc.destroy()
	return true
}

func (vc *VideoCapturer) engineSettings() otc.VideoCapturerSettings {
	return otc.VideoCapturerSettings{
		Format:              int32(vc.settings.Format),
		Width:               int32(vc.settings.Width),
		Height:              int32(vc.settings.Height),
		FPS:                 int32(vc.settings.FPS),
		ExpectedDelay:       int32(vc.settings.ExpectedDelay),
		MirrorOnLocalRender: vc.settings.MirrorOnLocalRender,
	}
}

// destroy forgets the handle and the token. The engine owns the handle, so
// nothing is deleted.
func (vc *VideoCapturer) destroy() {
	vc.state.Store(capturerClosed)
	vc.running.Store(false)
	vc.managed.destroy()
}

// Close forgets a capturer that was never given to a publisher. A bound
// capturer is released together with its publisher.
func (vc *VideoCapturer) Close() error {
	if !vc.state.CompareAndSwap(capturerFree, capturerClosed) {
		return nil
	}
	vc.destroy()
	return nil
}
