//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync"
	"time"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// Stream is a media flow published into a session.
//
// Like Connection, a Stream is read when it is created and owns an engine
// copy; that copy is what a Subscriber is built from. Close releases it.
type Stream struct {
	ctx    *Context
	handle *handles.Owned
	once   sync.Once

	id            string
	name          string
	hasVideo      bool
	hasVideoTrack bool
	hasAudio      bool
	hasAudioTrack bool
	width         int
	height        int
	creationTime  int64
	videoType     StreamVideoType
	connection    *Connection
}

// newStream copies the borrowed stream s and reads it.
func newStream(ctx *Context, s otc.Handle) (*Stream, error) {
	if s == 0 {
		return nil, newError(KindNullHandle, "stream copy")
	}
	e := ctx.engine
	cp := e.StreamCopy(s)
	if cp == 0 {
		return nil, newError(KindNullHandle, "stream copy")
	}
	st := &Stream{
		ctx:           ctx,
		handle:        handles.Own(uintptr(cp), func(p uintptr) { e.StreamDelete(otc.Handle(p)) }),
		id:            e.StreamID(cp),
		name:          e.StreamName(cp),
		hasVideo:      e.StreamHasVideo(cp),
		hasVideoTrack: e.StreamHasVideoTrack(cp),
		hasAudio:      e.StreamHasAudio(cp),
		hasAudioTrack: e.StreamHasAudioTrack(cp),
		width:         int(e.StreamVideoWidth(cp)),
		height:        int(e.StreamVideoHeight(cp)),
		creationTime:  e.StreamCreationTime(cp),
		videoType:     StreamVideoType(e.StreamVideoType(cp)),
	}
	if conn := e.StreamConnection(cp); conn != 0 {
		// A stream without a readable connection is still usable.
		st.connection, _ = newConnection(ctx, conn)
	}
	return st, nil
}

// ID is the engine's stream id.
func (s *Stream) ID() string { return s.id }

// Name is the publisher's name for the stream.
func (s *Stream) Name() string { return s.name }

// HasVideo reports whether video is currently being published.
func (s *Stream) HasVideo() bool { return s.hasVideo }

// HasVideoTrack reports whether the stream carries a video track at all.
func (s *Stream) HasVideoTrack() bool { return s.hasVideoTrack }

// HasAudio reports whether audio is currently being published.
func (s *Stream) HasAudio() bool { return s.hasAudio }

// HasAudioTrack reports whether the stream carries an audio track at all.
func (s *Stream) HasAudioTrack() bool { return s.hasAudioTrack }

// VideoWidth in pixels, as of the copy.
func (s *Stream) VideoWidth() int { return s.width }

// VideoHeight in pixels, as of the copy.
func (s *Stream) VideoHeight() int { return s.height }

// VideoType reports camera or screen content.
func (s *Stream) VideoType() StreamVideoType { return s.videoType }

// CreationTime is when the stream was published.
func (s *Stream) CreationTime() time.Time {
	return time.UnixMilli(s.creationTime)
}

// Connection is the publishing participant, or nil if the engine did not
// report one.
func (s *Stream) Connection() *Connection {
	return s.connection
}

func (s *Stream) ptr() otc.Handle {
	return otc.Handle(s.handle.Ptr())
}

// Copy returns an independent Stream with its own engine copy.
func (s *Stream) Copy() (*Stream, error) {
	p := s.ptr()
	if p == 0 {
		return nil, newError(KindNullHandle, "stream copy")
	}
	return newStream(s.ctx, p)
}

// Close releases the engine copy and that of the stream's connection.
// A Subscriber bound to the stream keeps its own reference.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.handle.Release()
		if s.connection != nil {
			s.connection.Close()
		}
	})
}
