//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// dispatcher routes engine events to the object registered under the
// callback's token. Events for unknown tokens are dropped: the object was
// closed, or the event raced its creation.
//
// Handles arriving here are borrowed. Anything handed to a listener is
// copied first, and nothing is copied when no listener is set.
type dispatcher struct {
	c *Context
}

var _ otc.Dispatcher = dispatcher{}

func (d dispatcher) dropped(event string, err error) {
	d.c.log.WithFields(logrus.Fields{
		"function": "dispatch",
		"event":    event,
	}).WithError(err).Debug("event dropped")
}

func (d dispatcher) session(token uintptr) (*Session, bool) {
	return handles.Lookup[*Session](d.c.registry, token)
}

func (d dispatcher) publisher(token uintptr) (*Publisher, bool) {
	return handles.Lookup[*Publisher](d.c.registry, token)
}

func (d dispatcher) subscriber(token uintptr) (*Subscriber, bool) {
	return handles.Lookup[*Subscriber](d.c.registry, token)
}

func (d dispatcher) capturer(token uintptr) (*VideoCapturer, bool) {
	return handles.Lookup[*VideoCapturer](d.c.registry, token)
}

func (d dispatcher) audio(token uintptr) (*AudioDevice, bool) {
	return handles.Lookup[*AudioDevice](d.c.registry, token)
}

// Session events.

func (d dispatcher) SessionConnected(_ otc.Handle, token uintptr) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	s.setState(SessionStateConnected)
	if fn := s.listeners.OnConnected; fn != nil {
		fn(s)
	}
}

func (d dispatcher) SessionDisconnected(_ otc.Handle, token uintptr) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	s.setState(SessionStateDisconnected)
	if fn := s.listeners.OnDisconnected; fn != nil {
		fn(s)
	}
}

func (d dispatcher) sessionConnection(token uintptr, conn otc.Handle, event string, pick func(SessionListeners) func(*Session, *Connection)) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	fn := pick(s.listeners)
	if fn == nil {
		return
	}
	c, err := newConnection(d.c, conn)
	if err != nil {
		d.dropped(event, err)
		return
	}
	fn(s, c)
}

func (d dispatcher) SessionConnectionCreated(_ otc.Handle, token uintptr, conn otc.Handle) {
	d.sessionConnection(token, conn, "connection created", func(l SessionListeners) func(*Session, *Connection) {
		return l.OnConnectionCreated
	})
}

func (d dispatcher) SessionConnectionDropped(_ otc.Handle, token uintptr, conn otc.Handle) {
	d.sessionConnection(token, conn, "connection dropped", func(l SessionListeners) func(*Session, *Connection) {
		return l.OnConnectionDropped
	})
}

// sessionStream resolves the session and copies the stream when the
// listener chosen by pick is set.
func (d dispatcher) sessionStream(token uintptr, stream otc.Handle, event string, pick func(SessionListeners) bool) (*Session, *Stream, bool) {
	s, ok := d.session(token)
	if !ok || !pick(s.listeners) {
		return nil, nil, false
	}
	st, err := newStream(d.c, stream)
	if err != nil {
		d.dropped(event, err)
		return nil, nil, false
	}
	return s, st, true
}

func (d dispatcher) SessionStreamReceived(_ otc.Handle, token uintptr, stream otc.Handle) {
	s, st, ok := d.sessionStream(token, stream, "stream received", func(l SessionListeners) bool {
		return l.OnStreamReceived != nil
	})
	if ok {
		s.listeners.OnStreamReceived(s, st)
	}
}

func (d dispatcher) SessionStreamDropped(_ otc.Handle, token uintptr, stream otc.Handle) {
	s, st, ok := d.sessionStream(token, stream, "stream dropped", func(l SessionListeners) bool {
		return l.OnStreamDropped != nil
	})
	if ok {
		s.listeners.OnStreamDropped(s, st)
	}
}

func (d dispatcher) SessionStreamHasAudioChanged(_ otc.Handle, token uintptr, stream otc.Handle, hasAudio bool) {
	s, st, ok := d.sessionStream(token, stream, "stream has audio changed", func(l SessionListeners) bool {
		return l.OnStreamHasAudioChanged != nil
	})
	if ok {
		s.listeners.OnStreamHasAudioChanged(s, st, hasAudio)
	}
}

func (d dispatcher) SessionStreamHasVideoChanged(_ otc.Handle, token uintptr, stream otc.Handle, hasVideo bool) {
	s, st, ok := d.sessionStream(token, stream, "stream has video changed", func(l SessionListeners) bool {
		return l.OnStreamHasVideoChanged != nil
	})
	if ok {
		s.listeners.OnStreamHasVideoChanged(s, st, hasVideo)
	}
}

func (d dispatcher) SessionStreamVideoDimensionsChanged(_ otc.Handle, token uintptr, stream otc.Handle, width, height int32) {
	s, st, ok := d.sessionStream(token, stream, "stream video dimensions changed", func(l SessionListeners) bool {
		return l.OnStreamVideoDimensionsChanged != nil
	})
	if ok {
		s.listeners.OnStreamVideoDimensionsChanged(s, st, int(width), int(height))
	}
}

func (d dispatcher) SessionStreamVideoTypeChanged(_ otc.Handle, token uintptr, stream otc.Handle, videoType int32) {
	s, st, ok := d.sessionStream(token, stream, "stream video type changed", func(l SessionListeners) bool {
		return l.OnStreamVideoTypeChanged != nil
	})
	if ok {
		s.listeners.OnStreamVideoTypeChanged(s, st, StreamVideoType(videoType))
	}
}

func (d dispatcher) SessionSignalReceived(_ otc.Handle, token uintptr, signalType, signal string, conn otc.Handle) {
	s, ok := d.session(token)
	if !ok || s.listeners.OnSignalReceived == nil {
		return
	}
	var c *Connection
	if conn != 0 {
		var err error
		if c, err = newConnection(d.c, conn); err != nil {
			d.dropped("signal received", err)
			return
		}
	}
	s.listeners.OnSignalReceived(s, signalType, signal, c)
}

func (d dispatcher) SessionReconnectionStarted(_ otc.Handle, token uintptr) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	s.setState(SessionStateReconnecting)
	if fn := s.listeners.OnReconnectionStarted; fn != nil {
		fn(s)
	}
}

func (d dispatcher) SessionReconnected(_ otc.Handle, token uintptr) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	s.setState(SessionStateConnected)
	if fn := s.listeners.OnReconnected; fn != nil {
		fn(s)
	}
}

func (d dispatcher) SessionArchiveStarted(_ otc.Handle, token uintptr, archiveID, name string) {
	if s, ok := d.session(token); ok && s.listeners.OnArchiveStarted != nil {
		s.listeners.OnArchiveStarted(s, archiveID, name)
	}
}

func (d dispatcher) SessionArchiveStopped(_ otc.Handle, token uintptr, archiveID string) {
	if s, ok := d.session(token); ok && s.listeners.OnArchiveStopped != nil {
		s.listeners.OnArchiveStopped(s, archiveID)
	}
}

func (d dispatcher) SessionError(_ otc.Handle, token uintptr, message string, code int32) {
	s, ok := d.session(token)
	if !ok {
		return
	}
	err := SessionError{Code: sessionErrorCode(code), Message: message}
	d.c.log.WithFields(logrus.Fields{
		"function": "SessionError",
		"code":     code,
	}).Warn(message)
	if fn := s.listeners.OnError; fn != nil {
		fn(s, err)
	}
}

// Publisher events.

func (d dispatcher) PublisherStreamCreated(_ otc.Handle, token uintptr, stream otc.Handle) {
	p, ok := d.publisher(token)
	if !ok || p.listeners.OnStreamCreated == nil {
		return
	}
	st, err := newStream(d.c, stream)
	if err != nil {
		d.dropped("publisher stream created", err)
		return
	}
	p.listeners.OnStreamCreated(p, st)
}

func (d dispatcher) PublisherStreamDestroyed(_ otc.Handle, token uintptr, stream otc.Handle) {
	p, ok := d.publisher(token)
	if !ok || p.listeners.OnStreamDestroyed == nil {
		return
	}
	st, err := newStream(d.c, stream)
	if err != nil {
		d.dropped("publisher stream destroyed", err)
		return
	}
	p.listeners.OnStreamDestroyed(p, st)
}

func (d dispatcher) PublisherRenderFrame(_ otc.Handle, token uintptr, frame otc.Handle) {
	p, ok := d.publisher(token)
	if !ok || p.listeners.OnRenderFrame == nil {
		return
	}
	f, err := d.c.copyFrame(frame)
	if err != nil {
		d.dropped("publisher render frame", err)
		return
	}
	p.listeners.OnRenderFrame(p, f)
}

func (d dispatcher) PublisherAudioLevelUpdated(_ otc.Handle, token uintptr, level float32) {
	if p, ok := d.publisher(token); ok && p.listeners.OnAudioLevelUpdated != nil {
		p.listeners.OnAudioLevelUpdated(p, level)
	}
}

func (d dispatcher) PublisherAudioStats(_ otc.Handle, token uintptr, stats []otc.PublisherAudioStats) {
	p, ok := d.publisher(token)
	if !ok || p.listeners.OnAudioStats == nil {
		return
	}
	out := make([]PublisherAudioStats, len(stats))
	for i, s := range stats {
		out[i] = PublisherAudioStats(s)
	}
	p.listeners.OnAudioStats(p, out)
}

func (d dispatcher) PublisherVideoStats(_ otc.Handle, token uintptr, stats []otc.PublisherVideoStats) {
	p, ok := d.publisher(token)
	if !ok || p.listeners.OnVideoStats == nil {
		return
	}
	out := make([]PublisherVideoStats, len(stats))
	for i, s := range stats {
		out[i] = PublisherVideoStats(s)
	}
	p.listeners.OnVideoStats(p, out)
}

func (d dispatcher) PublisherError(_ otc.Handle, token uintptr, message string, code int32) {
	p, ok := d.publisher(token)
	if !ok {
		return
	}
	d.c.log.WithFields(logrus.Fields{
		"function": "PublisherError",
		"code":     code,
	}).Warn(message)
	if fn := p.listeners.OnError; fn != nil {
		fn(p, PublisherError{Code: publisherErrorCode(code), Message: message})
	}
}

// Subscriber events.

func (d dispatcher) SubscriberConnected(_ otc.Handle, token uintptr, stream otc.Handle) {
	sub, ok := d.subscriber(token)
	if !ok || sub.listeners.OnConnected == nil {
		return
	}
	st, err := newStream(d.c, stream)
	if err != nil {
		d.dropped("subscriber connected", err)
		return
	}
	sub.listeners.OnConnected(sub, st)
}

// subscriberEvent calls the argument-free listener chosen by pick.
func (d dispatcher) subscriberEvent(token uintptr, pick func(SubscriberListeners) func(*Subscriber)) {
	sub, ok := d.subscriber(token)
	if !ok {
		return
	}
	if fn := pick(sub.listeners); fn != nil {
		fn(sub)
	}
}

func (d dispatcher) SubscriberDisconnected(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnDisconnected })
}

func (d dispatcher) SubscriberReconnected(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnReconnected })
}

func (d dispatcher) SubscriberAudioDisabled(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnAudioDisabled })
}

func (d dispatcher) SubscriberAudioEnabled(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnAudioEnabled })
}

func (d dispatcher) SubscriberVideoDataReceived(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnVideoDataReceived })
}

func (d dispatcher) SubscriberVideoDisableWarning(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnVideoDisableWarning })
}

func (d dispatcher) SubscriberVideoDisableWarningLifted(_ otc.Handle, token uintptr) {
	d.subscriberEvent(token, func(l SubscriberListeners) func(*Subscriber) { return l.OnVideoDisableWarningLifted })
}

func (d dispatcher) SubscriberRenderFrame(_ otc.Handle, token uintptr, frame otc.Handle) {
	sub, ok := d.subscriber(token)
	if !ok || sub.listeners.OnRenderFrame == nil {
		return
	}
	f, err := d.c.copyFrame(frame)
	if err != nil {
		d.dropped("subscriber render frame", err)
		return
	}
	sub.listeners.OnRenderFrame(sub, f)
}

func (d dispatcher) SubscriberVideoDisabled(_ otc.Handle, token uintptr, reason int32) {
	if sub, ok := d.subscriber(token); ok && sub.listeners.OnVideoDisabled != nil {
		sub.listeners.OnVideoDisabled(sub, VideoReason(reason))
	}
}

func (d dispatcher) SubscriberVideoEnabled(_ otc.Handle, token uintptr, reason int32) {
	if sub, ok := d.subscriber(token); ok && sub.listeners.OnVideoEnabled != nil {
		sub.listeners.OnVideoEnabled(sub, VideoReason(reason))
	}
}

func (d dispatcher) SubscriberAudioLevelUpdated(_ otc.Handle, token uintptr, level float32) {
	if sub, ok := d.subscriber(token); ok && sub.listeners.OnAudioLevelUpdated != nil {
		sub.listeners.OnAudioLevelUpdated(sub, level)
	}
}

func (d dispatcher) SubscriberError(_ otc.Handle, token uintptr, message string, code int32) {
	sub, ok := d.subscriber(token)
	if !ok {
		return
	}
	d.c.log.WithFields(logrus.Fields{
		"function": "SubscriberError",
		"code":     code,
	}).Warn(message)
	if fn := sub.listeners.OnError; fn != nil {
		fn(sub, SubscriberError{Code: subscriberErrorCode(code), Message: message})
	}
}

// Video capturer events. A false return tells the engine the call failed.

func (d dispatcher) CapturerInit(capturer otc.Handle, token uintptr) bool {
	vc, ok := d.capturer(token)
	return ok && vc.engineInit(capturer)
}

func (d dispatcher) CapturerDestroy(_ otc.Handle, token uintptr) bool {
	vc, ok := d.capturer(token)
	return ok && vc.engineDestroyed()
}

func (d dispatcher) CapturerStart(_ otc.Handle, token uintptr) bool {
	vc, ok := d.capturer(token)
	return ok && vc.engineStart()
}

func (d dispatcher) CapturerStop(_ otc.Handle, token uintptr) bool {
	vc, ok := d.capturer(token)
	return ok && vc.engineStop()
}

func (d dispatcher) CapturerSettings(_ otc.Handle, token uintptr) (otc.VideoCapturerSettings, bool) {
	vc, ok := d.capturer(token)
	if !ok {
		return otc.VideoCapturerSettings{}, false
	}
	return vc.engineSettings(), true
}

// Audio device events.

func (d dispatcher) AudioStartCapturer(token uintptr) bool {
	a, ok := d.audio(token)
	return ok && a.startCapturer()
}

func (d dispatcher) AudioStopCapturer(token uintptr) bool {
	a, ok := d.audio(token)
	return ok && a.stopCapturer()
}

func (d dispatcher) AudioStartRenderer(token uintptr) bool {
	a, ok := d.audio(token)
	return ok && a.startRenderer()
}

func (d dispatcher) AudioStopRenderer(token uintptr) bool {
	a, ok := d.audio(token)
	return ok && a.stopRenderer()
}

func (d dispatcher) AudioCaptureSettings(token uintptr) (otc.AudioSettings, bool) {
	a, ok := d.audio(token)
	if !ok {
		return otc.AudioSettings{}, false
	}
	return a.engineCaptureSettings(), true
}

func (d dispatcher) AudioRenderSettings(token uintptr) (otc.AudioSettings, bool) {
	a, ok := d.audio(token)
	if !ok {
		return otc.AudioSettings{}, false
	}
	return a.engineRenderSettings(), true
}

func (d dispatcher) Log(message string) {
	d.c.engineLog(message)
}
