//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync/atomic"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// managed is the state shared by every object the engine calls back into:
// its registry token, its listeners and its owned handle.
//
// The token is assigned before the engine handle exists, because the handle
// is created by a call that already needs the token as user data. The handle
// is attached at most once.
type managed[L any] struct {
	ctx       *Context
	token     uintptr
	listeners L
	handle    atomic.Pointer[handles.Owned]
}

func (m *managed[L]) register(ctx *Context, owner any, listeners L) {
	m.ctx = ctx
	m.listeners = listeners
	m.token = ctx.registry.Register(owner)
}

// attach binds the engine handle. It reports false if one is already bound.
func (m *managed[L]) attach(ptr otc.Handle, del func(otc.Handle)) bool {
	h := handles.Own(uintptr(ptr), func(p uintptr) { del(otc.Handle(p)) })
	if h == nil {
		return false
	}
	return m.handle.CompareAndSwap(nil, h)
}

func (m *managed[L]) ptr() otc.Handle {
	return otc.Handle(m.handle.Load().Ptr())
}

// live returns the handle or a NullHandle error for op.
func (m *managed[L]) live(op string) (otc.Handle, error) {
	if p := m.ptr(); p != 0 {
		return p, nil
	}
	return 0, newError(KindNullHandle, op)
}

func (m *managed[L]) retain(op string) error {
	if !m.handle.Load().Retain() {
		return newError(KindNullHandle, op)
	}
	return nil
}

// release drops one owner. The last owner deletes the handle and removes the
// token from the registry under one registry lock.
func (m *managed[L]) release() bool {
	h := m.handle.Load()
	if h == nil {
		m.ctx.registry.Unregister(m.token)
		return true
	}
	return m.ctx.registry.Release(m.token, h)
}

// destroy drops every remaining owner.
func (m *managed[L]) destroy() {
	h := m.handle.Load()
	if h == nil {
		m.ctx.registry.Unregister(m.token)
		return
	}
	for h.Ptr() != 0 {
		m.ctx.registry.Release(m.token, h)
	}
}
