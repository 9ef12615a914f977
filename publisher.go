//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// PublisherAudioStats is one subscriber's view of a publisher's audio.
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

// PublisherVideoStats is one subscriber's view of a publisher's video.
type PublisherVideoStats struct {
	ConnectionID string
	SubscriberID string
	PacketsLost  int64
	PacketsSent  int64
	BytesSent    int64
	Timestamp    float64
	StartTime    float64
}

// PublisherListeners receives publisher events. Nil fields are ignored.
type PublisherListeners struct {
	OnStreamCreated     func(p *Publisher, st *Stream)
	OnStreamDestroyed   func(p *Publisher, st *Stream)
	OnRenderFrame       func(p *Publisher, f *VideoFrame)
	OnAudioLevelUpdated func(p *Publisher, level float32)
	OnAudioStats        func(p *Publisher, stats []PublisherAudioStats)
	OnVideoStats        func(p *Publisher, stats []PublisherVideoStats)
	OnError             func(p *Publisher, err PublisherError)
}

// Publisher sends local media into a session.
type Publisher struct {
	managed[PublisherListeners]
	capturer *VideoCapturer
}

// NewPublisher creates a publisher. With a nil capturer the engine opens
// the default camera; otherwise frames come from capturer, which may back
// only one publisher.
func (c *Context) NewPublisher(name string, capturer *VideoCapturer, listeners PublisherListeners) (*Publisher, error) {
	if err := c.checkOpen("publisher new"); err != nil {
		return nil, err
	}
	var capToken uintptr
	if capturer != nil {
		if err := capturer.bind("publisher new"); err != nil {
			return nil, err
		}
		capToken = capturer.token
	}

	p := &Publisher{capturer: capturer}
	p.register(c, p, listeners)

	e := c.engine
	h := e.PublisherNew(name, capToken, p.token)
	if !p.attach(h, func(h otc.Handle) { deletePublisher(e, h) }) {
		c.registry.Unregister(p.token)
		if capturer != nil {
			capturer.unbind()
		}
		return nil, newError(KindNullHandle, "publisher new")
	}
	c.log.WithFields(logrus.Fields{
		"function": "NewPublisher",
		"name":     name,
		"token":    p.token,
		"capturer": capToken,
	}).Debug("publisher created")
	return p, nil
}

// deletePublisher detaches the publisher from its session before deleting
// it, so the engine never holds a dangling publisher.
func deletePublisher(e otc.Engine, h otc.Handle) {
	if s := e.PublisherSession(h); s != 0 {
		e.SessionUnpublish(s, h)
	}
	e.PublisherDelete(h)
}

// ToggleAudio turns publishing of audio on or off.
func (p *Publisher) ToggleAudio(on bool) error {
	h, err := p.live("publisher set publish audio")
	if err != nil {
		return err
	}
	return statusError(p.ctx.engine.PublisherSetPublishAudio(h, on), "publisher set publish audio")
}

// ToggleVideo turns publishing of video on or off.
func (p *Publisher) ToggleVideo(on bool) error {
	h, err := p.live("publisher set publish video")
	if err != nil {
		return err
	}
	return statusError(p.ctx.engine.PublisherSetPublishVideo(h, on), "publisher set publish video")
}

// PublishingAudio reports whether audio is being sent. A closed publisher
// reports false.
func (p *Publisher) PublishingAudio() bool {
	h := p.ptr()
	return h != 0 && p.ctx.engine.PublisherPublishAudio(h)
}

// PublishingVideo reports whether video is being sent.
func (p *Publisher) PublishingVideo() bool {
	h := p.ptr()
	return h != 0 && p.ctx.engine.PublisherPublishVideo(h)
}

// SetVideoType marks the published video as camera or screen content.
func (p *Publisher) SetVideoType(t PublisherVideoType) error {
	h, err := p.live("publisher set video type")
	if err != nil {
		return err
	}
	return statusError(p.ctx.engine.PublisherSetVideoType(h, int32(t)), "publisher set video type")
}

// Stream returns a copy of the published stream. It fails with
// ErrNullHandle until the publisher has been published.
func (p *Publisher) Stream() (*Stream, error) {
	h, err := p.live("publisher get stream")
	if err != nil {
		return nil, err
	}
	return newStream(p.ctx, p.ctx.engine.PublisherStream(h))
}

// ID returns the engine's publisher id, or "" once closed.
func (p *Publisher) ID() string {
	h := p.ptr()
	if h == 0 {
		return ""
	}
	return p.ctx.engine.PublisherID(h)
}

// Name returns the name given at creation, or "" once closed.
func (p *Publisher) Name() string {
	h := p.ptr()
	if h == 0 {
		return ""
	}
	return p.ctx.engine.PublisherName(h)
}

// Capturer returns the custom capturer, or nil.
func (p *Publisher) Capturer() *VideoCapturer {
	return p.capturer
}

// Unpublish removes the publisher from its session, if it is in one.
func (p *Publisher) Unpublish() error {
	h, err := p.live("publisher unpublish")
	if err != nil {
		return err
	}
	s := p.ctx.engine.PublisherSession(h)
	if s == 0 {
		return nil
	}
	return statusError(p.ctx.engine.SessionUnpublish(s, h), "publisher unpublish")
}

// Retain adds an owner. Each Retain must be balanced by a Close.
func (p *Publisher) Retain() error {
	return p.retain("publisher retain")
}

// Close drops an owner. The last Close unpublishes and deletes the engine
// publisher.
func (p *Publisher) Close() error {
	if p.release() {
		p.closed()
	}
	return nil
}

func (p *Publisher) destroy() {
	p.managed.destroy()
	p.closed()
}

// closed runs once the engine publisher is gone. The engine destroys a
// custom capturer together with its publisher.
func (p *Publisher) closed() {
	if p.capturer != nil {
		p.capturer.destroy()
	}
	p.ctx.log.WithFields(logrus.Fields{
		"function": "Publisher.Close",
		"token":    p.token,
	}).Debug("publisher deleted")
}
