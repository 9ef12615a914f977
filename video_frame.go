//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// FrameFormat is the pixel layout of a VideoFrame.
type FrameFormat int32

const (
	FrameFormatUnknown    FrameFormat = 0
	FrameFormatYUV420P    FrameFormat = 1
	FrameFormatNV12       FrameFormat = 2
	FrameFormatNV21       FrameFormat = 3
	FrameFormatYUY2       FrameFormat = 4
	FrameFormatUYVY       FrameFormat = 5
	FrameFormatARGB32     FrameFormat = 6
	FrameFormatBGRA32     FrameFormat = 7
	FrameFormatRGB24      FrameFormat = 8
	FrameFormatABGR32     FrameFormat = 9
	FrameFormatMJPEG      FrameFormat = 10
	FrameFormatRGBA32     FrameFormat = 11
	FrameFormatMax        FrameFormat = 12
	FrameFormatCompressed FrameFormat = 255
)

func (f FrameFormat) String() string {
	switch f {
	case FrameFormatYUV420P:
		return "yuv420p"
	case FrameFormatNV12:
		return "nv12"
	case FrameFormatNV21:
		return "nv21"
	case FrameFormatYUY2:
		return "yuy2"
	case FrameFormatUYVY:
		return "uyvy"
	case FrameFormatARGB32:
		return "argb32"
	case FrameFormatBGRA32:
		return "bgra32"
	case FrameFormatRGB24:
		return "rgb24"
	case FrameFormatABGR32:
		return "abgr32"
	case FrameFormatMJPEG:
		return "mjpeg"
	case FrameFormatRGBA32:
		return "rgba32"
	case FrameFormatCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

// FramePlane selects a plane of a planar frame.
type FramePlane int32

const (
	PlaneY             FramePlane = 0
	PlaneU             FramePlane = 1
	PlaneV             FramePlane = 2
	PlanePacked        FramePlane = 3
	PlaneUVInterleaved FramePlane = 4
	PlaneVUInterleaved FramePlane = 5
)

// VideoFrame is an owned engine frame.
//
// Frames passed to render listeners are copies the listener owns; call
// Close when done with them. Accessors on a closed frame return zero values.
type VideoFrame struct {
	ctx    *Context
	handle *handles.Owned
	once   sync.Once
}

func (c *Context) ownFrame(f otc.Handle, op string) (*VideoFrame, error) {
	if f == 0 {
		return nil, newError(KindNullHandle, op)
	}
	e := c.engine
	return &VideoFrame{
		ctx:    c,
		handle: handles.Own(uintptr(f), func(p uintptr) { e.VideoFrameDelete(otc.Handle(p)) }),
	}, nil
}

// copyFrame takes an owned copy of a frame the engine lent to a callback.
func (c *Context) copyFrame(f otc.Handle) (*VideoFrame, error) {
	if f == 0 {
		return nil, newError(KindNullHandle, "video frame copy")
	}
	return c.ownFrame(c.engine.VideoFrameCopy(f), "video frame copy")
}

// NewVideoFrame creates a frame from packed or planar pixel data. The
// engine copies buf.
func (c *Context) NewVideoFrame(format FrameFormat, width, height int, buf []byte) (*VideoFrame, error) {
	if err := c.checkOpen("video frame new"); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, newError(KindInvalidParam, "video frame new")
	}
	return c.ownFrame(c.engine.VideoFrameNew(int32(format), int32(width), int32(height), buf), "video frame new")
}

func (f *VideoFrame) ptr() otc.Handle {
	return otc.Handle(f.handle.Ptr())
}

// Format returns the pixel format. A closed frame reports
// FrameFormatUnknown.
func (f *VideoFrame) Format() FrameFormat {
	p := f.ptr()
	if p == 0 {
		return FrameFormatUnknown
	}
	return FrameFormat(f.ctx.engine.VideoFrameFormat(p))
}

// Width in pixels.
func (f *VideoFrame) Width() int {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return int(f.ctx.engine.VideoFrameWidth(p))
}

// Height in pixels.
func (f *VideoFrame) Height() int {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return int(f.ctx.engine.VideoFrameHeight(p))
}

// Buffer returns a copy of the frame's pixel data.
func (f *VideoFrame) Buffer() []byte {
	p := f.ptr()
	if p == 0 {
		return nil
	}
	return f.ctx.engine.VideoFrameBuffer(p)
}

// Timestamp is in microseconds.
func (f *VideoFrame) Timestamp() int64 {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return f.ctx.engine.VideoFrameTimestamp(p)
}

// SetTimestamp sets the capture time carried with the frame.
func (f *VideoFrame) SetTimestamp(ts int64) error {
	p := f.ptr()
	if p == 0 {
		return newError(KindNullHandle, "video frame set timestamp")
	}
	return statusError(f.ctx.engine.VideoFrameSetTimestamp(p, ts), "video frame set timestamp")
}

// NumberOfPlanes returns how many planes the format uses.
func (f *VideoFrame) NumberOfPlanes() int {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return f.ctx.engine.VideoFrameNumberOfPlanes(p)
}

// PlaneSize returns the byte length of plane, or 0 when closed.
func (f *VideoFrame) PlaneSize(plane FramePlane) int {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return f.ctx.engine.VideoFramePlaneSize(p, int32(plane))
}

// PlaneStride returns the row stride of plane in bytes.
func (f *VideoFrame) PlaneStride(plane FramePlane) int {
	p := f.ptr()
	if p == 0 {
		return 0
	}
	return int(f.ctx.engine.VideoFramePlaneStride(p, int32(plane)))
}

// Copy returns an independent frame.
func (f *VideoFrame) Copy() (*VideoFrame, error) {
	p := f.ptr()
	if p == 0 {
		return nil, newError(KindNullHandle, "video frame copy")
	}
	return f.ctx.copyFrame(p)
}

// Convert returns a new frame in the given format.
func (f *VideoFrame) Convert(format FrameFormat) (*VideoFrame, error) {
	p := f.ptr()
	if p == 0 {
		return nil, newError(KindNullHandle, "video frame convert")
	}
	return f.ctx.ownFrame(f.ctx.engine.VideoFrameConvert(int32(format), p), "video frame convert")
}

// Close deletes the frame. Safe to call more than once.
func (f *VideoFrame) Close() {
	f.once.Do(func() { f.handle.Release() })
}
