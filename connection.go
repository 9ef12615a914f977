//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync"
	"time"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// Connection is a participant's link to a session.
//
// Its fields are read once when the Connection is created and never change.
// A Connection also owns an engine copy, needed to address a signal to it;
// Close releases that copy.
type Connection struct {
	ctx    *Context
	handle *handles.Owned
	once   sync.Once

	id           string
	creationTime int64
	data         string
	sessionID    string
}

// newConnection copies the borrowed connection c and reads it.
func newConnection(ctx *Context, c otc.Handle) (*Connection, error) {
	if c == 0 {
		return nil, newError(KindNullHandle, "connection copy")
	}
	e := ctx.engine
	cp := e.ConnectionCopy(c)
	if cp == 0 {
		return nil, newError(KindNullHandle, "connection copy")
	}
	return &Connection{
		ctx:          ctx,
		handle:       handles.Own(uintptr(cp), func(p uintptr) { e.ConnectionDelete(otc.Handle(p)) }),
		id:           e.ConnectionID(cp),
		creationTime: e.ConnectionCreationTime(cp),
		data:         e.ConnectionData(cp),
		sessionID:    e.ConnectionSessionID(cp),
	}, nil
}

// ID is the engine's connection id.
func (c *Connection) ID() string { return c.id }

// Data is the application data attached to the connection token.
func (c *Connection) Data() string { return c.data }

// SessionID is the session the connection belongs to.
func (c *Connection) SessionID() string { return c.sessionID }

// CreationTime is when the participant connected.
func (c *Connection) CreationTime() time.Time {
	return time.UnixMilli(c.creationTime)
}

func (c *Connection) ptr() otc.Handle {
	return otc.Handle(c.handle.Ptr())
}

// Copy returns an independent Connection with its own engine copy.
func (c *Connection) Copy() (*Connection, error) {
	p := c.ptr()
	if p == 0 {
		return nil, newError(KindNullHandle, "connection copy")
	}
	return newConnection(c.ctx, p)
}

// Close releases the engine copy. The read fields stay valid.
func (c *Connection) Close() {
	c.once.Do(func() { c.handle.Release() })
}
