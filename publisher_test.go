//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

func TestPublisherPublishDeliversStream(t *testing.T) {
	c, e, _ := newTestContext(t)

	created := make(chan *Stream, 1)
	p, err := c.NewPublisher("cam", nil, PublisherListeners{
		OnStreamCreated: func(_ *Publisher, st *Stream) { created <- st },
	})
	require.NoError(t, err)
	assert.Equal(t, "cam", p.Name())
	assert.Equal(t, "publisher-cam", p.ID())
	assert.Nil(t, p.Capturer())

	_, err = p.Stream()
	assert.ErrorIs(t, err, ErrNullHandle, "no stream before publishing")

	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	require.NoError(t, s.Publish(p))
	e.Flush()

	st := <-created
	defer st.Close()
	assert.Equal(t, "stream-cam", st.ID())
	assert.Equal(t, "cam", st.Name())

	again, err := p.Stream()
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, st.ID(), again.ID())
	assert.NotEqual(t, st.ptr(), again.ptr(), "each call returns its own copy")
}

func TestPublisherToggles(t *testing.T) {
	c, e, _ := newTestContext(t)

	p, err := c.NewPublisher("cam", nil, PublisherListeners{})
	require.NoError(t, err)
	assert.True(t, p.PublishingAudio())
	assert.True(t, p.PublishingVideo())

	require.NoError(t, p.ToggleAudio(false))
	assert.False(t, p.PublishingAudio())
	assert.True(t, p.PublishingVideo())

	require.NoError(t, p.ToggleVideo(false))
	assert.False(t, p.PublishingVideo())

	require.NoError(t, p.SetVideoType(PublisherVideoTypeScreen))
	err = p.SetVideoType(PublisherVideoType(9))
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.Equal(t, int32(otc.InvalidParam), err.(*Error).Code)

	assert.NotEqual(t, -1, e.Index("publisher_set_publish_audio", p.ptr()))
	assert.NotEqual(t, -1, e.Index("publisher_set_publish_video", p.ptr()))
}

func TestPublisherCloseUnpublishesBeforeDelete(t *testing.T) {
	c, e, _ := newTestContext(t)

	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	p, err := c.NewPublisher("cam", nil, PublisherListeners{})
	require.NoError(t, err)
	require.NoError(t, s.Publish(p))
	e.Flush()

	h := p.ptr()
	require.NoError(t, p.Close())

	unpublish := e.Index("session_unpublish", h)
	del := e.Index("publisher_delete", h)
	require.NotEqual(t, -1, unpublish)
	require.NotEqual(t, -1, del)
	assert.Less(t, unpublish, del)
	assert.False(t, e.Live(h))
	assert.Nil(t, c.registry.Lookup(p.token))
	assert.ErrorIs(t, p.ToggleAudio(true), ErrNullHandle)
}

func TestPublisherCloseUnpublishedSkipsUnpublish(t *testing.T) {
	c, e, _ := newTestContext(t)

	p, err := c.NewPublisher("cam", nil, PublisherListeners{})
	require.NoError(t, err)
	h := p.ptr()
	require.NoError(t, p.Close())

	assert.Equal(t, -1, e.Index("session_unpublish", h))
	assert.NotEqual(t, -1, e.Index("publisher_delete", h))
}

func TestPublisherUnpublish(t *testing.T) {
	c, e, _ := newTestContext(t)

	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	p, err := c.NewPublisher("cam", nil, PublisherListeners{})
	require.NoError(t, err)

	require.NoError(t, p.Unpublish(), "not in a session")
	require.NoError(t, s.Publish(p))
	require.NoError(t, p.Unpublish())
	assert.NotEqual(t, -1, e.Index("session_unpublish", p.ptr()))

	assert.ErrorIs(t, s.Unpublish(p), ErrInvalidParam, "already unpublished")
}

func TestPublisherNewNullHandle(t *testing.T) {
	c, e, _ := newTestContext(t)
	e.FailCreate = true

	vc, err := c.NewVideoCapturer(DefaultVideoCapturerSettings(), VideoCapturerListeners{})
	require.NoError(t, err)
	before := c.registry.Count()

	p, err := c.NewPublisher("cam", vc, PublisherListeners{})
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.Equal(t, before, c.registry.Count())

	e.FailCreate = false
	p, err = c.NewPublisher("cam", vc, PublisherListeners{})
	require.NoError(t, err, "capturer is free again after a failed create")
	assert.Same(t, vc, p.Capturer())
}

func TestPublisherEvents(t *testing.T) {
	c, e, _ := newTestContext(t)

	var (
		level      atomic.Value
		audioStats []PublisherAudioStats
		videoStats []PublisherVideoStats
		pubErr     PublisherError
		frameSize  [2]int
		destroyed  string
	)
	p, err := c.NewPublisher("cam", nil, PublisherListeners{
		OnAudioLevelUpdated: func(_ *Publisher, l float32) { level.Store(l) },
		OnAudioStats:        func(_ *Publisher, s []PublisherAudioStats) { audioStats = s },
		OnVideoStats:        func(_ *Publisher, s []PublisherVideoStats) { videoStats = s },
		OnError:             func(_ *Publisher, err PublisherError) { pubErr = err },
		OnRenderFrame: func(_ *Publisher, f *VideoFrame) {
			defer f.Close()
			frameSize = [2]int{f.Width(), f.Height()}
		},
		OnStreamDestroyed: func(_ *Publisher, st *Stream) {
			defer st.Close()
			destroyed = st.ID()
		},
	})
	require.NoError(t, err)

	frame := e.AddFrame(int32(FrameFormatRGBA32), 4, 2, make([]byte, 32))
	stream := newTestStream(e, "gone")
	e.Do(func(d otc.Dispatcher) {
		d.PublisherAudioLevelUpdated(p.ptr(), p.token, 0.5)
		d.PublisherAudioStats(p.ptr(), p.token, []otc.PublisherAudioStats{
			{ConnectionID: "c1", SubscriberID: "s1", PacketsSent: 10, AudioLevel: 0.25},
		})
		d.PublisherVideoStats(p.ptr(), p.token, []otc.PublisherVideoStats{
			{ConnectionID: "c1", BytesSent: 2048},
			{ConnectionID: "c2", PacketsLost: 3},
		})
		d.PublisherError(p.ptr(), p.token, "cannot publish", 1500)
		d.PublisherRenderFrame(p.ptr(), p.token, frame)
		d.PublisherStreamDestroyed(p.ptr(), p.token, stream)
	})
	e.Forget(frame)

	assert.Equal(t, float32(0.5), level.Load())
	require.Len(t, audioStats, 1)
	assert.Equal(t, PublisherAudioStats{ConnectionID: "c1", SubscriberID: "s1", PacketsSent: 10, AudioLevel: 0.25}, audioStats[0])
	require.Len(t, videoStats, 2)
	assert.Equal(t, int64(2048), videoStats[0].BytesSent)
	assert.Equal(t, int64(3), videoStats[1].PacketsLost)
	assert.Equal(t, PublisherUnableToPublish, pubErr.Code)
	assert.Equal(t, [2]int{4, 2}, frameSize)
	assert.Equal(t, "gone", destroyed)
}

func TestPublisherWithCapturer(t *testing.T) {
	c, e, _ := newTestContext(t)

	var inits, starts atomic.Int32
	vc, err := c.NewVideoCapturer(DefaultVideoCapturerSettings(), VideoCapturerListeners{
		OnInit:  func(*VideoCapturer) { inits.Add(1) },
		OnStart: func(*VideoCapturer) { starts.Add(1) },
	})
	require.NoError(t, err)

	p, err := c.NewPublisher("custom", vc, PublisherListeners{})
	require.NoError(t, err)

	_, err = c.NewPublisher("second", vc, PublisherListeners{})
	assert.ErrorIs(t, err, ErrAlreadyInitialized, "a capturer backs one publisher")

	frame, err := c.NewVideoFrame(FrameFormatRGBA32, 2, 2, make([]byte, 16))
	require.NoError(t, err)
	defer frame.Close()
	assert.ErrorIs(t, vc.ProvideFrame(0, frame), ErrNullHandle, "inert until the engine initializes it")
	assert.False(t, vc.Running())

	s, err := c.NewSession("key", "session-1", SessionListeners{})
	require.NoError(t, err)
	require.NoError(t, s.Publish(p))
	e.Flush()

	assert.Equal(t, int32(1), inits.Load())
	assert.Equal(t, int32(1), starts.Load())
	assert.True(t, vc.Running())
	require.NoError(t, vc.ProvideFrame(90, frame))
	assert.NotEqual(t, -1, e.Index("video_capturer_provide_frame", frame.ptr()))

	require.NoError(t, p.Close())
	assert.False(t, vc.Running())
	assert.Nil(t, c.registry.Lookup(vc.token))
	assert.ErrorIs(t, vc.ProvideFrame(0, frame), ErrNullHandle)
}

func TestCapturerInitHandle(t *testing.T) {
	c, _, _ := newTestContext(t)
	d := dispatcher{c}

	vc, err := c.NewVideoCapturer(DefaultVideoCapturerSettings(), VideoCapturerListeners{})
	require.NoError(t, err)
	defer vc.Close()

	assert.False(t, d.CapturerInit(0, vc.token), "null handle rejected")
	assert.True(t, d.CapturerInit(otc.Handle(0x40), vc.token))
	assert.True(t, d.CapturerInit(otc.Handle(0x40), vc.token), "same handle again")
	assert.False(t, d.CapturerInit(otc.Handle(0x80), vc.token), "first handle is kept")
	assert.Equal(t, otc.Handle(0x40), vc.ptr())

	settings, ok := d.CapturerSettings(0x40, vc.token)
	require.True(t, ok)
	assert.Equal(t, int32(1280), settings.Width)
	assert.Equal(t, int32(FrameFormatRGBA32), settings.Format)
}

func TestPublisherRejectsClosedCapturer(t *testing.T) {
	c, e, _ := newTestContext(t)

	vc, err := c.NewVideoCapturer(DefaultVideoCapturerSettings(), VideoCapturerListeners{})
	require.NoError(t, err)
	require.NoError(t, vc.Close())
	assert.Nil(t, c.registry.Lookup(vc.token))

	p, err := c.NewPublisher("cam", vc, PublisherListeners{})
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.Equal(t, 0, countCalls(e.CallNames(), "publisher_new"))
}

func TestBoundCapturerCloseIsDeferred(t *testing.T) {
	c, _, _ := newTestContext(t)

	vc, err := c.NewVideoCapturer(DefaultVideoCapturerSettings(), VideoCapturerListeners{})
	require.NoError(t, err)
	p, err := c.NewPublisher("cam", vc, PublisherListeners{})
	require.NoError(t, err)

	require.NoError(t, vc.Close())
	assert.NotNil(t, c.registry.Lookup(vc.token), "the publisher still owns it")

	require.NoError(t, p.Close())
	assert.Nil(t, c.registry.Lookup(vc.token))
	_, err = c.NewPublisher("again", vc, PublisherListeners{})
	assert.ErrorIs(t, err, ErrNullHandle)
}
