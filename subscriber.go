//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// SubscriberListeners receives subscriber events. Nil fields are ignored.
type SubscriberListeners struct {
	OnConnected                 func(sub *Subscriber, st *Stream)
	OnDisconnected              func(sub *Subscriber)
	OnReconnected               func(sub *Subscriber)
	OnRenderFrame               func(sub *Subscriber, f *VideoFrame)
	OnVideoDisabled             func(sub *Subscriber, reason VideoReason)
	OnVideoEnabled              func(sub *Subscriber, reason VideoReason)
	OnAudioDisabled             func(sub *Subscriber)
	OnAudioEnabled              func(sub *Subscriber)
	OnVideoDataReceived         func(sub *Subscriber)
	OnVideoDisableWarning       func(sub *Subscriber)
	OnVideoDisableWarningLifted func(sub *Subscriber)
	OnAudioLevelUpdated         func(sub *Subscriber, level float32)
	OnError                     func(sub *Subscriber, err SubscriberError)
}

// Subscriber receives a remote stream.
//
// A Subscriber is inert until SetStream binds it to a stream; until then
// every engine operation fails with ErrNullHandle.
type Subscriber struct {
	managed[SubscriberListeners]

	mu      sync.Mutex
	stream  *Stream
	binding bool
}

// NewSubscriber creates an unbound subscriber.
func (c *Context) NewSubscriber(listeners SubscriberListeners) (*Subscriber, error) {
	if err := c.checkOpen("subscriber new"); err != nil {
		return nil, err
	}
	sub := &Subscriber{}
	sub.ctx = c
	sub.listeners = listeners
	return sub, nil
}

// SetStream binds the subscriber to st and creates the engine subscriber.
// It can succeed only once; later calls fail with ErrAlreadyInitialized.
// The subscriber keeps its own reference to st.
func (sub *Subscriber) SetStream(st *Stream) error {
	if st == nil || st.ptr() == 0 {
		return newError(KindNullHandle, "subscriber set stream")
	}
	if err := sub.ctx.checkOpen("subscriber set stream"); err != nil {
		return err
	}

	sub.mu.Lock()
	if sub.stream != nil || sub.binding {
		sub.mu.Unlock()
		return newError(KindAlreadyInitialized, "subscriber set stream")
	}
	sub.binding = true
	sub.mu.Unlock()

	if !st.handle.Retain() {
		sub.finishBinding(nil)
		return newError(KindNullHandle, "subscriber set stream")
	}

	sub.token = sub.ctx.registry.Register(sub)
	e := sub.ctx.engine
	if !sub.attach(e.SubscriberNew(st.ptr(), sub.token), func(h otc.Handle) { deleteSubscriber(e, h) }) {
		sub.ctx.registry.Unregister(sub.token)
		sub.token = 0
		st.handle.Release()
		sub.finishBinding(nil)
		return newError(KindNullHandle, "subscriber new")
	}
	sub.finishBinding(st)

	sub.ctx.log.WithFields(logrus.Fields{
		"function":  "Subscriber.SetStream",
		"stream_id": st.ID(),
		"token":     sub.token,
	}).Debug("subscriber created")
	return nil
}

// finishBinding publishes the outcome of SetStream. A nil st leaves the
// subscriber unbound so SetStream can be retried.
func (sub *Subscriber) finishBinding(st *Stream) {
	sub.mu.Lock()
	sub.stream = st
	sub.binding = false
	sub.mu.Unlock()
}

func deleteSubscriber(e otc.Engine, h otc.Handle) {
	if s := e.SubscriberSession(h); s != 0 {
		e.SessionUnsubscribe(s, h)
	}
	e.SubscriberDelete(h)
}

// Stream returns the bound stream, or nil before SetStream.
func (sub *Subscriber) Stream() *Stream {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.stream
}

// SetSubscribeToVideo turns reception of the stream's video on or off.
func (sub *Subscriber) SetSubscribeToVideo(on bool) error {
	h, err := sub.live("subscriber set subscribe to video")
	if err != nil {
		return err
	}
	return statusError(sub.ctx.engine.SubscriberSetSubscribeToVideo(h, on), "subscriber set subscribe to video")
}

// SetSubscribeToAudio turns reception of the stream's audio on or off.
func (sub *Subscriber) SetSubscribeToAudio(on bool) error {
	h, err := sub.live("subscriber set subscribe to audio")
	if err != nil {
		return err
	}
	return statusError(sub.ctx.engine.SubscriberSetSubscribeToAudio(h, on), "subscriber set subscribe to audio")
}

// SubscribingToVideo reports whether video is being received.
func (sub *Subscriber) SubscribingToVideo() bool {
	h := sub.ptr()
	return h != 0 && sub.ctx.engine.SubscriberSubscribeToVideo(h)
}

// SubscribingToAudio reports whether audio is being received.
func (sub *Subscriber) SubscribingToAudio() bool {
	h := sub.ptr()
	return h != 0 && sub.ctx.engine.SubscriberSubscribeToAudio(h)
}

// SetPreferredResolution asks the routed session for a resolution. It has
// no effect in relayed sessions.
func (sub *Subscriber) SetPreferredResolution(width, height uint32) error {
	h, err := sub.live("subscriber set preferred resolution")
	if err != nil {
		return err
	}
	return statusError(sub.ctx.engine.SubscriberSetPreferredResolution(h, width, height), "subscriber set preferred resolution")
}

// PreferredResolution returns the resolution last requested.
func (sub *Subscriber) PreferredResolution() (width, height uint32, err error) {
	h, err := sub.live("subscriber get preferred resolution")
	if err != nil {
		return 0, 0, err
	}
	w, ht, st := sub.ctx.engine.SubscriberPreferredResolution(h)
	if err := statusError(st, "subscriber get preferred resolution"); err != nil {
		return 0, 0, err
	}
	return w, ht, nil
}

// SetPreferredFramerate asks the routed session for a frame rate.
func (sub *Subscriber) SetPreferredFramerate(fps float32) error {
	h, err := sub.live("subscriber set preferred framerate")
	if err != nil {
		return err
	}
	return statusError(sub.ctx.engine.SubscriberSetPreferredFramerate(h, fps), "subscriber set preferred framerate")
}

// PreferredFramerate returns the frame rate last requested.
func (sub *Subscriber) PreferredFramerate() (float32, error) {
	h, err := sub.live("subscriber get preferred framerate")
	if err != nil {
		return 0, err
	}
	fps, st := sub.ctx.engine.SubscriberPreferredFramerate(h)
	if err := statusError(st, "subscriber get preferred framerate"); err != nil {
		return 0, err
	}
	return fps, nil
}

// ID returns the engine's subscriber id, or "" when unbound.
func (sub *Subscriber) ID() string {
	h := sub.ptr()
	if h == 0 {
		return ""
	}
	return sub.ctx.engine.SubscriberID(h)
}

// Unsubscribe removes the subscriber from its session, if it is in one.
func (sub *Subscriber) Unsubscribe() error {
	h, err := sub.live("subscriber unsubscribe")
	if err != nil {
		return err
	}
	s := sub.ctx.engine.SubscriberSession(h)
	if s == 0 {
		return nil
	}
	return statusError(sub.ctx.engine.SessionUnsubscribe(s, h), "subscriber unsubscribe")
}

// Retain adds an owner. Each Retain must be balanced by a Close.
func (sub *Subscriber) Retain() error {
	return sub.retain("subscriber retain")
}

// Close drops an owner. The last Close unsubscribes, deletes the engine
// subscriber and releases the bound stream.
func (sub *Subscriber) Close() error {
	st := sub.Stream()
	if st == nil {
		return nil
	}
	if sub.release() {
		sub.closed(st)
	}
	return nil
}

func (sub *Subscriber) destroy() {
	st := sub.Stream()
	if st == nil {
		return
	}
	for sub.ptr() != 0 {
		if sub.release() {
			sub.closed(st)
		}
	}
}

// closed drops the stream reference taken by SetStream. The engine
// subscriber is already gone and no lock is held.
func (sub *Subscriber) closed(st *Stream) {
	st.handle.Release()
	sub.ctx.log.WithFields(logrus.Fields{
		"function": "Subscriber.Close",
		"token":    sub.token,
	}).Debug("subscriber deleted")
}
