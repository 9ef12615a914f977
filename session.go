//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// SessionListeners receives session events. Nil fields are ignored.
//
// Streams and connections passed to a listener are copies it owns and
// should Close once it no longer needs them.
type SessionListeners struct {
	OnConnected                    func(s *Session)
	OnDisconnected                 func(s *Session)
	OnConnectionCreated            func(s *Session, c *Connection)
	OnConnectionDropped            func(s *Session, c *Connection)
	OnStreamReceived               func(s *Session, st *Stream)
	OnStreamDropped                func(s *Session, st *Stream)
	OnStreamHasAudioChanged        func(s *Session, st *Stream, hasAudio bool)
	OnStreamHasVideoChanged        func(s *Session, st *Stream, hasVideo bool)
	OnStreamVideoDimensionsChanged func(s *Session, st *Stream, width, height int)
	OnStreamVideoTypeChanged       func(s *Session, st *Stream, t StreamVideoType)
	// OnSignalReceived gets a nil Connection for signals sent by the server.
	OnSignalReceived      func(s *Session, signalType, data string, c *Connection)
	OnReconnectionStarted func(s *Session)
	OnReconnected         func(s *Session)
	OnArchiveStarted      func(s *Session, archiveID, name string)
	OnArchiveStopped      func(s *Session, archiveID string)
	OnError               func(s *Session, err SessionError)
}

// SessionState is tracked from session events.
type SessionState int32

const (
	SessionStateDisconnected SessionState = iota
	SessionStateConnecting
	SessionStateConnected
	SessionStateReconnecting
)

func (s SessionState) String() string {
	switch s {
	case SessionStateDisconnected:
		return "disconnected"
	case SessionStateConnecting:
		return "connecting"
	case SessionStateConnected:
		return "connected"
	case SessionStateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Session is a connection to an OpenTok session.
type Session struct {
	managed[SessionListeners]
	state atomic.Int32
}

// NewSession creates a session. It does not connect.
func (c *Context) NewSession(apiKey, sessionID string, listeners SessionListeners) (*Session, error) {
	if err := c.checkOpen("session new"); err != nil {
		return nil, err
	}
	s := &Session{}
	s.register(c, s, listeners)

	e := c.engine
	if !s.attach(e.SessionNew(apiKey, sessionID, s.token), func(h otc.Handle) { e.SessionDelete(h) }) {
		c.registry.Unregister(s.token)
		return nil, newError(KindNullHandle, "session new")
	}
	c.log.WithFields(logrus.Fields{
		"function":   "NewSession",
		"session_id": sessionID,
		"token":      s.token,
	}).Debug("session created")
	return s, nil
}

// Connect starts connecting with a client token. Completion is reported
// through OnConnected or OnError.
func (s *Session) Connect(token string) error {
	h, err := s.live("session connect")
	if err != nil {
		return err
	}
	s.setState(SessionStateConnecting)
	if err := statusError(s.ctx.engine.SessionConnect(h, token), "session connect"); err != nil {
		s.setState(SessionStateDisconnected)
		return err
	}
	return nil
}

// Disconnect starts leaving the session. OnDisconnected follows.
func (s *Session) Disconnect() error {
	h, err := s.live("session disconnect")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionDisconnect(h), "session disconnect")
}

// Publish starts sending p's media into the session.
func (s *Session) Publish(p *Publisher) error {
	h, err := s.live("session publish")
	if err != nil {
		return err
	}
	if p == nil {
		return newError(KindNullHandle, "session publish")
	}
	ph, err := p.live("session publish")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionPublish(h, ph), "session publish")
}

// Unpublish stops sending p's media into the session.
func (s *Session) Unpublish(p *Publisher) error {
	h, err := s.live("session unpublish")
	if err != nil {
		return err
	}
	if p == nil {
		return newError(KindNullHandle, "session unpublish")
	}
	ph, err := p.live("session unpublish")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionUnpublish(h, ph), "session unpublish")
}

// Subscribe starts receiving sub's stream. sub must have a stream set.
func (s *Session) Subscribe(sub *Subscriber) error {
	h, err := s.live("session subscribe")
	if err != nil {
		return err
	}
	if sub == nil {
		return newError(KindNullHandle, "session subscribe")
	}
	sh, err := sub.live("session subscribe")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionSubscribe(h, sh), "session subscribe")
}

// Unsubscribe stops receiving sub's stream.
func (s *Session) Unsubscribe(sub *Subscriber) error {
	h, err := s.live("session unsubscribe")
	if err != nil {
		return err
	}
	if sub == nil {
		return newError(KindNullHandle, "session unsubscribe")
	}
	sh, err := sub.live("session unsubscribe")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionUnsubscribe(h, sh), "session unsubscribe")
}

// SendSignal sends a signal to every participant.
func (s *Session) SendSignal(signalType, data string) error {
	h, err := s.live("session send signal")
	if err != nil {
		return err
	}
	return statusError(s.ctx.engine.SessionSendSignal(h, signalType, data), "session send signal")
}

// SendSignalToConnection sends a signal to one participant.
func (s *Session) SendSignalToConnection(signalType, data string, to *Connection) error {
	h, err := s.live("session send signal to connection")
	if err != nil {
		return err
	}
	if to == nil || to.ptr() == 0 {
		return newError(KindNullHandle, "session send signal to connection")
	}
	return statusError(s.ctx.engine.SessionSendSignalToConnection(h, signalType, data, to.ptr()), "session send signal to connection")
}

// ID returns the session ID, or "" once the session is closed.
func (s *Session) ID() string {
	h := s.ptr()
	if h == 0 {
		return ""
	}
	return s.ctx.engine.SessionID(h)
}

// State returns the last connection state seen from the engine.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(st SessionState) {
	s.state.Store(int32(st))
}

// Retain adds an owner. Each Retain must be balanced by a Close.
func (s *Session) Retain() error {
	return s.retain("session retain")
}

// Close drops an owner. The last Close deletes the engine session.
func (s *Session) Close() error {
	if s.release() {
		s.setState(SessionStateDisconnected)
		s.ctx.log.WithFields(logrus.Fields{
			"function": "Session.Close",
			"token":    s.token,
		}).Debug("session deleted")
	}
	return nil
}
