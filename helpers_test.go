//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/opentok/internal/otc"
	"github.com/obinnaokechukwu/opentok/internal/otc/fake"
)

// newTestContext returns a Context on a fresh fake engine. The Context is
// deinitialized when the test ends unless the test already did so.
func newTestContext(t *testing.T) (*Context, *fake.Engine, *logtest.Hook) {
	t.Helper()
	e := fake.New()
	c, hook := newTestContextOn(t, e)
	return c, e, hook
}

// newTestContextOn is newTestContext for an engine that wraps the fake.
func newTestContextOn(t *testing.T, e otc.Engine) (*Context, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cfg := DefaultConfig()
	cfg.Logger = logger

	c, err := newContext(e, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Deinit() })
	return c, hook
}

func newTestStream(e *fake.Engine, id string) otc.Handle {
	conn := e.AddConnection(fakeConnection(id))
	return e.AddStream(fake.StreamInfo{
		ID:            id,
		Name:          "camera " + id,
		HasVideo:      true,
		HasVideoTrack: true,
		HasAudio:      true,
		HasAudioTrack: true,
		VideoWidth:    640,
		VideoHeight:   480,
		CreationTime:  1700000001000,
		VideoType:     1,
		Connection:    conn,
	})
}

// receiveStream delivers a borrowed stream to the session and returns the
// copy the listener got.
func receiveStream(t *testing.T, c *Context, e *fake.Engine, id string) *Stream {
	t.Helper()
	got := make(chan *Stream, 1)
	s, err := c.NewSession("key", "session-1", SessionListeners{
		OnStreamReceived: func(_ *Session, st *Stream) { got <- st },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	borrowed := newTestStream(e, id)
	e.Do(func(d otc.Dispatcher) { d.SessionStreamReceived(s.ptr(), s.token, borrowed) })
	e.Forget(borrowed)

	select {
	case st := <-got:
		return st
	default:
		t.Fatal("stream was not delivered")
		return nil
	}
}

func fakeConnection(id string) fake.ConnectionInfo {
	return fake.ConnectionInfo{
		ID:           "conn-" + id,
		CreationTime: 1700000000000,
		Data:         "name=" + id,
		SessionID:    "session-1",
	}
}
