//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/opentok/internal/otc"
	"github.com/obinnaokechukwu/opentok/internal/otc/fake"
)

func TestSubscriberInertBeforeSetStream(t *testing.T) {
	c, _, _ := newTestContext(t)

	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	assert.Nil(t, sub.Stream())

	assert.ErrorIs(t, sub.SetSubscribeToVideo(false), ErrNullHandle)
	assert.ErrorIs(t, sub.SetSubscribeToAudio(false), ErrNullHandle)
	assert.ErrorIs(t, sub.SetPreferredResolution(320, 240), ErrNullHandle)
	assert.ErrorIs(t, sub.SetPreferredFramerate(15), ErrNullHandle)
	_, _, err = sub.PreferredResolution()
	assert.ErrorIs(t, err, ErrNullHandle)
	_, err = sub.PreferredFramerate()
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.ErrorIs(t, sub.Unsubscribe(), ErrNullHandle)
	assert.False(t, sub.SubscribingToAudio())
	assert.Empty(t, sub.ID())
	assert.NoError(t, sub.Close())
}

func TestSubscriberSetStreamOnce(t *testing.T) {
	c, e, _ := newTestContext(t)

	first := receiveStream(t, c, e, "first")
	defer first.Close()
	second, err := first.Copy()
	require.NoError(t, err)
	defer second.Close()

	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	require.NoError(t, sub.SetStream(first))
	assert.Equal(t, "subscriber-first", sub.ID())

	err = sub.SetStream(second)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Same(t, first, sub.Stream(), "the first stream is kept")
	assert.Equal(t, 1, countCalls(e.CallNames(), "subscriber_new"))
}

func TestSubscriberSetStreamNull(t *testing.T) {
	c, e, _ := newTestContext(t)

	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	assert.ErrorIs(t, sub.SetStream(nil), ErrNullHandle)

	st := receiveStream(t, c, e, "closed")
	st.Close()
	assert.ErrorIs(t, sub.SetStream(st), ErrNullHandle)
	assert.Nil(t, sub.Stream())
}

func TestSubscriberNewNullHandle(t *testing.T) {
	c, e, _ := newTestContext(t)
	st := receiveStream(t, c, e, "s")
	defer st.Close()
	before := c.registry.Count()

	e.FailCreate = true
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	assert.ErrorIs(t, sub.SetStream(st), ErrNullHandle)
	assert.Equal(t, before, c.registry.Count())
	assert.Equal(t, 1, st.handle.Refs(), "stream reference returned on failure")

	e.FailCreate = false
	require.NoError(t, sub.SetStream(st), "a failed bind can be retried")
}

func TestSubscriberSubscribe(t *testing.T) {
	c, e, _ := newTestContext(t)

	connected := make(chan string, 1)
	sub, err := c.NewSubscriber(SubscriberListeners{
		OnConnected: func(_ *Subscriber, st *Stream) {
			defer st.Close()
			connected <- st.ID()
		},
	})
	require.NoError(t, err)
	st := receiveStream(t, c, e, "remote")
	require.NoError(t, sub.SetStream(st))

	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	require.NoError(t, s.Subscribe(sub))
	e.Flush()
	assert.Equal(t, "remote", <-connected)

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe(), "no longer in a session")
}

func TestSubscriberAudioToggleIsIndependent(t *testing.T) {
	c, e, _ := newTestContext(t)

	st := receiveStream(t, c, e, "s")
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	require.NoError(t, sub.SetStream(st))

	require.NoError(t, sub.SetSubscribeToAudio(false))
	assert.NotEqual(t, -1, e.Index("subscriber_set_subscribe_to_audio", sub.ptr()))
	assert.Equal(t, -1, e.Index("subscriber_set_subscribe_to_video", sub.ptr()))
	assert.False(t, sub.SubscribingToAudio())
	assert.True(t, sub.SubscribingToVideo())

	require.NoError(t, sub.SetSubscribeToVideo(false))
	assert.False(t, sub.SubscribingToVideo())
	assert.False(t, sub.SubscribingToAudio())
}

func TestSubscriberPreferences(t *testing.T) {
	c, e, _ := newTestContext(t)

	st := receiveStream(t, c, e, "s")
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	require.NoError(t, sub.SetStream(st))

	require.NoError(t, sub.SetPreferredResolution(640, 360))
	w, h, err := sub.PreferredResolution()
	require.NoError(t, err)
	assert.Equal(t, uint32(640), w)
	assert.Equal(t, uint32(360), h)

	require.NoError(t, sub.SetPreferredFramerate(7.5))
	fps, err := sub.PreferredFramerate()
	require.NoError(t, err)
	assert.Equal(t, float32(7.5), fps)
}

func TestSubscriberCloseUnsubscribesBeforeDelete(t *testing.T) {
	c, e, _ := newTestContext(t)

	st := receiveStream(t, c, e, "s")
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	require.NoError(t, sub.SetStream(st))
	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	require.NoError(t, s.Subscribe(sub))

	h := sub.ptr()
	streamCopy := st.ptr()
	require.NoError(t, sub.Close())

	unsubscribe := e.Index("session_unsubscribe", h)
	del := e.Index("subscriber_delete", h)
	require.NotEqual(t, -1, unsubscribe)
	require.NotEqual(t, -1, del)
	assert.Less(t, unsubscribe, del)
	assert.False(t, e.Live(h))
	assert.Nil(t, c.registry.Lookup(sub.token))

	// The caller still holds its stream reference.
	assert.True(t, e.Live(streamCopy))
	st.Close()
	assert.False(t, e.Live(streamCopy))
}

func TestSubscriberStreamOutlivesCallerClose(t *testing.T) {
	c, e, _ := newTestContext(t)

	st := receiveStream(t, c, e, "s")
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	require.NoError(t, sub.SetStream(st))

	copyHandle := st.ptr()
	st.Close()
	assert.True(t, e.Live(copyHandle), "subscriber keeps its reference")

	require.NoError(t, sub.Close())
	assert.False(t, e.Live(copyHandle))
}

func TestSubscriberEvents(t *testing.T) {
	c, e, _ := newTestContext(t)

	var (
		events  []string
		reasons []VideoReason
		level   float32
		subErr  SubscriberError
		frame   FrameFormat
	)
	record := func(name string) func(*Subscriber) {
		return func(*Subscriber) { events = append(events, name) }
	}
	sub, err := c.NewSubscriber(SubscriberListeners{
		OnDisconnected:              record("disconnected"),
		OnReconnected:               record("reconnected"),
		OnAudioDisabled:             record("audio disabled"),
		OnAudioEnabled:              record("audio enabled"),
		OnVideoDataReceived:         record("video data"),
		OnVideoDisableWarning:       record("warning"),
		OnVideoDisableWarningLifted: record("warning lifted"),
		OnVideoDisabled:             func(_ *Subscriber, r VideoReason) { reasons = append(reasons, r) },
		OnVideoEnabled:              func(_ *Subscriber, r VideoReason) { reasons = append(reasons, r) },
		OnAudioLevelUpdated:         func(_ *Subscriber, l float32) { level = l },
		OnError:                     func(_ *Subscriber, err SubscriberError) { subErr = err },
		OnRenderFrame: func(_ *Subscriber, f *VideoFrame) {
			defer f.Close()
			frame = f.Format()
		},
	})
	require.NoError(t, err)
	st := receiveStream(t, c, e, "s")
	require.NoError(t, sub.SetStream(st))

	yuv := e.AddFrame(int32(FrameFormatYUV420P), 4, 4, make([]byte, 24))
	h, token := sub.ptr(), sub.token
	e.Do(func(d otc.Dispatcher) {
		d.SubscriberDisconnected(h, token)
		d.SubscriberReconnected(h, token)
		d.SubscriberAudioDisabled(h, token)
		d.SubscriberAudioEnabled(h, token)
		d.SubscriberVideoDataReceived(h, token)
		d.SubscriberVideoDisableWarning(h, token)
		d.SubscriberVideoDisableWarningLifted(h, token)
		d.SubscriberVideoDisabled(h, token, 3)
		d.SubscriberVideoEnabled(h, token, 2)
		d.SubscriberAudioLevelUpdated(h, token, 0.75)
		d.SubscriberError(h, token, "stream gone", 1604)
		d.SubscriberRenderFrame(h, token, yuv)
	})

	assert.Equal(t, []string{
		"disconnected", "reconnected", "audio disabled", "audio enabled",
		"video data", "warning", "warning lifted",
	}, events)
	assert.Equal(t, []VideoReason{VideoReasonQuality, VideoReasonSubscribeToVideo}, reasons)
	assert.Equal(t, float32(0.75), level)
	assert.Equal(t, SubscriberServerCannotFindStream, subErr.Code)
	assert.Equal(t, FrameFormatYUV420P, frame)
}

// reentrantEngine runs during inside the engine's subscriber create and
// delete, the way engine threads deliver callbacks while those calls run.
type reentrantEngine struct {
	*fake.Engine
	during func(call string)
}

func (e *reentrantEngine) SubscriberNew(stream otc.Handle, token uintptr) otc.Handle {
	if e.during != nil {
		e.during("subscriber_new")
	}
	return e.Engine.SubscriberNew(stream, token)
}

func (e *reentrantEngine) SubscriberDelete(h otc.Handle) otc.Status {
	if e.during != nil {
		e.during("subscriber_delete")
	}
	return e.Engine.SubscriberDelete(h)
}

func TestSubscriberEngineCallsDoNotHoldLock(t *testing.T) {
	e := &reentrantEngine{Engine: fake.New()}
	c, _ := newTestContextOn(t, e)

	st := receiveStream(t, c, e.Engine, "s")
	defer st.Close()
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)

	var blocked []string
	e.during = func(call string) {
		done := make(chan struct{})
		go func() {
			sub.Stream()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			blocked = append(blocked, call)
		}
	}

	require.NoError(t, sub.SetStream(st))
	require.NoError(t, sub.Close())
	assert.Empty(t, blocked, "Stream blocked while the engine was called")
	assert.Equal(t, 1, countCalls(e.CallNames(), "subscriber_delete"))
}

func TestSubscriberConcurrentSetStream(t *testing.T) {
	c, e, _ := newTestContext(t)

	st := receiveStream(t, c, e, "s")
	defer st.Close()
	sub, err := c.NewSubscriber(SubscriberListeners{})
	require.NoError(t, err)
	defer sub.Close()

	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { errs <- sub.SetStream(st) }()
	}
	var ok, taken int
	for i := 0; i < 4; i++ {
		if err := <-errs; err == nil {
			ok++
		} else if KindOf(err) == KindAlreadyInitialized {
			taken++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 3, taken)
	assert.Equal(t, 1, countCalls(e.CallNames(), "subscriber_new"))
}
