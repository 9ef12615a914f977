//go:build !ios && !android && (amd64 || arm64)

// Package fake is an in-memory otc.Engine for tests.
//
// It hands out synthetic handles, records every call in order, and delivers
// events from its own worker goroutine the way the native engine delivers
// them from its own threads. Connect, Disconnect, Publish and Subscribe
// schedule the events a real engine would send; tests can inject anything
// else with Do.
package fake

import (
	"sync"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// StreamInfo describes a stream the engine knows about.
type StreamInfo struct {
	ID            string
	Name          string
	HasVideo      bool
	HasVideoTrack bool
	HasAudio      bool
	HasAudioTrack bool
	VideoWidth    int32
	VideoHeight   int32
	CreationTime  int64
	VideoType     int32
	Connection    otc.Handle
}

// ConnectionInfo describes a connection the engine knows about.
type ConnectionInfo struct {
	ID           string
	CreationTime int64
	Data         string
	SessionID    string
}

// Call is one recorded engine call.
type Call struct {
	Name   string
	Handle otc.Handle
	Arg    otc.Handle
}

type session struct {
	token     uintptr
	apiKey    string
	sessionID string
}

type publisher struct {
	token    uintptr
	capturer otc.Handle
	capToken uintptr
	name     string
	session  otc.Handle
	stream   otc.Handle
	video    bool
	audio    bool
	vtype    int32
}

type subscriber struct {
	token   uintptr
	stream  otc.Handle
	session otc.Handle
	video   bool
	audio   bool
	width   uint32
	height  uint32
	fps     float32
}

type frame struct {
	format int32
	width  int32
	height int32
	buf    []byte
	ts     int64
}

// Engine is the fake. The zero value is not usable; call New.
type Engine struct {
	mu          sync.Mutex
	d           otc.Dispatcher
	next        otc.Handle
	calls       []Call
	logLevel    int32
	logger      bool
	audioToken  uintptr
	captured    [][]int16
	renderValue int16

	sessions    map[otc.Handle]*session
	publishers  map[otc.Handle]*publisher
	subscribers map[otc.Handle]*subscriber
	streams     map[otc.Handle]*StreamInfo
	connections map[otc.Handle]*ConnectionInfo
	frames      map[otc.Handle]*frame

	queue chan func()
	stop  chan struct{}
	wg    sync.WaitGroup

	// InitStatus is returned by Init.
	InitStatus otc.Status
	// FailCreate makes SessionNew, PublisherNew, SubscriberNew and
	// VideoFrameNew return a null handle.
	FailCreate bool
}

// New returns a ready fake engine.
func New() *Engine {
	return &Engine{
		next:        0x1000,
		sessions:    make(map[otc.Handle]*session),
		publishers:  make(map[otc.Handle]*publisher),
		subscribers: make(map[otc.Handle]*subscriber),
		streams:     make(map[otc.Handle]*StreamInfo),
		connections: make(map[otc.Handle]*ConnectionInfo),
		frames:      make(map[otc.Handle]*frame),
		queue:       make(chan func(), 256),
		stop:        make(chan struct{}),
	}
}

func (e *Engine) alloc() otc.Handle {
	e.next += 0x10
	return e.next
}

func (e *Engine) record(name string, h, arg otc.Handle) {
	e.calls = append(e.calls, Call{Name: name, Handle: h, Arg: arg})
}

func (e *Engine) dispatcher() otc.Dispatcher {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d
}

// post schedules fn on the engine thread.
func (e *Engine) post(fn func(d otc.Dispatcher)) {
	e.queue <- func() {
		if d := e.dispatcher(); d != nil {
			fn(d)
		}
	}
}

// Do runs fn on the engine thread and waits for it.
func (e *Engine) Do(fn func(d otc.Dispatcher)) {
	done := make(chan struct{})
	e.queue <- func() {
		defer close(done)
		if d := e.dispatcher(); d != nil {
			fn(d)
		}
	}
	<-done
}

// Flush waits until every event scheduled so far has been delivered.
func (e *Engine) Flush() {
	e.Do(func(otc.Dispatcher) {})
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case fn := <-e.queue:
			fn()
		case <-e.stop:
			for {
				select {
				case fn := <-e.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Calls returns a copy of the call log.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallNames returns the names in the call log.
func (e *Engine) CallNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.calls))
	for i, c := range e.calls {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the first call named name on h, or -1.
func (e *Engine) Index(name string, h otc.Handle) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, c := range e.calls {
		if c.Name == name && (h == 0 || c.Handle == h || c.Arg == h) {
			return i
		}
	}
	return -1
}

// Live reports whether h is a handle the engine has not deleted.
func (e *Engine) Live(h otc.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[h]; ok {
		return true
	}
	if _, ok := e.publishers[h]; ok {
		return true
	}
	if _, ok := e.subscribers[h]; ok {
		return true
	}
	if _, ok := e.streams[h]; ok {
		return true
	}
	if _, ok := e.connections[h]; ok {
		return true
	}
	_, ok := e.frames[h]
	return ok
}

// AddStream registers an engine-owned stream and returns its borrowed handle.
func (e *Engine) AddStream(info StreamInfo) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.alloc()
	e.streams[h] = &info
	return h
}

// AddConnection registers an engine-owned connection.
func (e *Engine) AddConnection(info ConnectionInfo) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.alloc()
	e.connections[h] = &info
	return h
}

// Forget drops an engine-owned object, as the engine does once the
// callback that lent it returns.
func (e *Engine) Forget(h otc.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.streams, h)
	delete(e.connections, h)
	delete(e.frames, h)
}

// SessionToken returns the user data installed for a session.
func (e *Engine) SessionToken(h otc.Handle) uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := e.sessions[h]; s != nil {
		return s.token
	}
	return 0
}

// PublisherToken returns the user data installed for a publisher.
func (e *Engine) PublisherToken(h otc.Handle) uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.publishers[h]; p != nil {
		return p.token
	}
	return 0
}

// SubscriberToken returns the user data installed for a subscriber.
func (e *Engine) SubscriberToken(h otc.Handle) uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s := e.subscribers[h]; s != nil {
		return s.token
	}
	return 0
}

// AudioToken returns the user data of the installed audio device.
func (e *Engine) AudioToken() uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.audioToken
}

// Captured returns the blocks written with AudioWriteCaptureData.
func (e *Engine) Captured() [][]int16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]int16(nil), e.captured...)
}

// SetRenderValue sets the sample value AudioReadRenderData fills with.
func (e *Engine) SetRenderValue(v int16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderValue = v
}

// LogLevel returns the last level passed to LogEnable.
func (e *Engine) LogLevel() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logLevel
}

// LoggerInstalled reports whether a logger callback is set.
func (e *Engine) LoggerInstalled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logger
}

func (e *Engine) Init(d otc.Dispatcher) otc.Status {
	e.mu.Lock()
	e.record("init", 0, 0)
	if e.InitStatus != otc.Success {
		e.mu.Unlock()
		return e.InitStatus
	}
	e.d = d
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run()
	return otc.Success
}

func (e *Engine) Destroy() otc.Status {
	e.mu.Lock()
	e.record("destroy", 0, 0)
	running := e.d != nil
	e.mu.Unlock()

	if running {
		close(e.stop)
		e.wg.Wait()
	}

	e.mu.Lock()
	e.d = nil
	e.mu.Unlock()
	return otc.Success
}

func (e *Engine) LogEnable(level int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logLevel = level
}

func (e *Engine) SetLogger(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = enabled
}

// EmitLog delivers a log line through the logger callback, if installed.
func (e *Engine) EmitLog(msg string) {
	e.mu.Lock()
	on := e.logger
	e.mu.Unlock()
	if on {
		e.Do(func(d otc.Dispatcher) { d.Log(msg) })
	}
}

func (e *Engine) SetAudioDevice(token uintptr) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("set_audio_device", 0, 0)
	e.audioToken = token
	return otc.Success
}

func (e *Engine) AudioWriteCaptureData(samples []int16) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.captured = append(e.captured, append([]int16(nil), samples...))
	return otc.Success
}

func (e *Engine) AudioReadRenderData(buf []int16) int {
	e.mu.Lock()
	v := e.renderValue
	e.mu.Unlock()
	for i := range buf {
		buf[i] = v
	}
	return len(buf)
}

func (e *Engine) SessionNew(apiKey, sessionID string, token uintptr) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailCreate || apiKey == "" || sessionID == "" {
		e.record("session_new", 0, 0)
		return 0
	}
	h := e.alloc()
	e.sessions[h] = &session{token: token, apiKey: apiKey, sessionID: sessionID}
	e.record("session_new", h, 0)
	return h
}

func (e *Engine) SessionDelete(s otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("session_delete", s, 0)
	if _, ok := e.sessions[s]; !ok {
		return otc.InvalidParam
	}
	delete(e.sessions, s)
	return otc.Success
}

func (e *Engine) SessionConnect(s otc.Handle, token string) otc.Status {
	e.mu.Lock()
	e.record("session_connect", s, 0)
	sess, ok := e.sessions[s]
	e.mu.Unlock()
	if !ok {
		return otc.InvalidParam
	}
	e.post(func(d otc.Dispatcher) { d.SessionConnected(s, sess.token) })
	return otc.Success
}

func (e *Engine) SessionDisconnect(s otc.Handle) otc.Status {
	e.mu.Lock()
	e.record("session_disconnect", s, 0)
	sess, ok := e.sessions[s]
	e.mu.Unlock()
	if !ok {
		return otc.InvalidParam
	}
	e.post(func(d otc.Dispatcher) { d.SessionDisconnected(s, sess.token) })
	return otc.Success
}

func (e *Engine) SessionPublish(s, p otc.Handle) otc.Status {
	e.mu.Lock()
	e.record("session_publish", s, p)
	_, sok := e.sessions[s]
	pub, pok := e.publishers[p]
	if !sok || !pok {
		e.mu.Unlock()
		return otc.InvalidParam
	}
	pub.session = s
	st := e.alloc()
	pub.stream = st
	e.streams[st] = &StreamInfo{
		ID:            "stream-" + pub.name,
		Name:          pub.name,
		HasVideo:      pub.video,
		HasVideoTrack: true,
		HasAudio:      pub.audio,
		HasAudioTrack: true,
		VideoWidth:    1280,
		VideoHeight:   720,
		VideoType:     1,
	}
	capturer, capToken, token := pub.capturer, pub.capToken, pub.token
	e.mu.Unlock()

	e.post(func(d otc.Dispatcher) {
		if capToken != 0 {
			d.CapturerInit(capturer, capToken)
			d.CapturerStart(capturer, capToken)
		}
		d.PublisherStreamCreated(p, token, st)
	})
	return otc.Success
}

func (e *Engine) SessionUnpublish(s, p otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("session_unpublish", s, p)
	pub, ok := e.publishers[p]
	if !ok || pub.session != s {
		return otc.InvalidParam
	}
	pub.session = 0
	return otc.Success
}

func (e *Engine) SessionSubscribe(s, sub otc.Handle) otc.Status {
	e.mu.Lock()
	e.record("session_subscribe", s, sub)
	_, sok := e.sessions[s]
	subscr, ok := e.subscribers[sub]
	if !sok || !ok {
		e.mu.Unlock()
		return otc.InvalidParam
	}
	subscr.session = s
	token, stream := subscr.token, subscr.stream
	e.mu.Unlock()

	e.post(func(d otc.Dispatcher) { d.SubscriberConnected(sub, token, stream) })
	return otc.Success
}

func (e *Engine) SessionUnsubscribe(s, sub otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("session_unsubscribe", s, sub)
	subscr, ok := e.subscribers[sub]
	if !ok || subscr.session != s {
		return otc.InvalidParam
	}
	subscr.session = 0
	return otc.Success
}

func (e *Engine) SessionSendSignal(s otc.Handle, typ, signal string) otc.Status {
	e.mu.Lock()
	e.record("session_send_signal", s, 0)
	sess, ok := e.sessions[s]
	e.mu.Unlock()
	if !ok {
		return otc.InvalidParam
	}
	e.post(func(d otc.Dispatcher) { d.SessionSignalReceived(s, sess.token, typ, signal, 0) })
	return otc.Success
}

func (e *Engine) SessionSendSignalToConnection(s otc.Handle, typ, signal string, c otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("session_send_signal_to_connection", s, c)
	if _, ok := e.sessions[s]; !ok {
		return otc.InvalidParam
	}
	if _, ok := e.connections[c]; !ok {
		return otc.InvalidParam
	}
	return otc.Success
}

func (e *Engine) SessionID(s otc.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sess := e.sessions[s]; sess != nil {
		return sess.sessionID
	}
	return ""
}

func (e *Engine) PublisherNew(name string, capturerToken, token uintptr) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailCreate {
		e.record("publisher_new", 0, 0)
		return 0
	}
	h := e.alloc()
	p := &publisher{token: token, name: name, video: true, audio: true, vtype: 1}
	if capturerToken != 0 {
		p.capturer = e.alloc()
		p.capToken = capturerToken
	}
	e.publishers[h] = p
	e.record("publisher_new", h, p.capturer)
	return h
}

func (e *Engine) PublisherDelete(p otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("publisher_delete", p, 0)
	pub, ok := e.publishers[p]
	if !ok {
		return otc.InvalidParam
	}
	delete(e.streams, pub.stream)
	delete(e.publishers, p)
	return otc.Success
}

func (e *Engine) PublisherStream(p otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pub := e.publishers[p]; pub != nil {
		return pub.stream
	}
	return 0
}

func (e *Engine) PublisherSession(p otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pub := e.publishers[p]; pub != nil {
		return pub.session
	}
	return 0
}

func (e *Engine) PublisherSetPublishVideo(p otc.Handle, on bool) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("publisher_set_publish_video", p, 0)
	pub, ok := e.publishers[p]
	if !ok {
		return otc.InvalidParam
	}
	pub.video = on
	return otc.Success
}

func (e *Engine) PublisherSetPublishAudio(p otc.Handle, on bool) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("publisher_set_publish_audio", p, 0)
	pub, ok := e.publishers[p]
	if !ok {
		return otc.InvalidParam
	}
	pub.audio = on
	return otc.Success
}

func (e *Engine) PublisherPublishVideo(p otc.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	pub := e.publishers[p]
	return pub != nil && pub.video
}

func (e *Engine) PublisherPublishAudio(p otc.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	pub := e.publishers[p]
	return pub != nil && pub.audio
}

func (e *Engine) PublisherSetVideoType(p otc.Handle, t int32) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("publisher_set_video_type", p, 0)
	pub, ok := e.publishers[p]
	if !ok || t < 1 || t > 2 {
		return otc.InvalidParam
	}
	pub.vtype = t
	return otc.Success
}

func (e *Engine) PublisherID(p otc.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pub := e.publishers[p]; pub != nil {
		return "publisher-" + pub.name
	}
	return ""
}

func (e *Engine) PublisherName(p otc.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pub := e.publishers[p]; pub != nil {
		return pub.name
	}
	return ""
}

func (e *Engine) SubscriberNew(stream otc.Handle, token uintptr) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, ok := e.streams[stream]
	if e.FailCreate || !ok {
		e.record("subscriber_new", 0, stream)
		return 0
	}
	own := e.alloc()
	cp := *info
	e.streams[own] = &cp

	h := e.alloc()
	e.subscribers[h] = &subscriber{token: token, stream: own, video: true, audio: true}
	e.record("subscriber_new", h, stream)
	return h
}

func (e *Engine) SubscriberDelete(s otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("subscriber_delete", s, 0)
	sub, ok := e.subscribers[s]
	if !ok {
		return otc.InvalidParam
	}
	delete(e.streams, sub.stream)
	delete(e.subscribers, s)
	return otc.Success
}

func (e *Engine) SubscriberStream(s otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub := e.subscribers[s]; sub != nil {
		return sub.stream
	}
	return 0
}

func (e *Engine) SubscriberSession(s otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub := e.subscribers[s]; sub != nil {
		return sub.session
	}
	return 0
}

func (e *Engine) SubscriberSetSubscribeToVideo(s otc.Handle, on bool) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("subscriber_set_subscribe_to_video", s, 0)
	sub, ok := e.subscribers[s]
	if !ok {
		return otc.InvalidParam
	}
	sub.video = on
	return otc.Success
}

func (e *Engine) SubscriberSetSubscribeToAudio(s otc.Handle, on bool) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("subscriber_set_subscribe_to_audio", s, 0)
	sub, ok := e.subscribers[s]
	if !ok {
		return otc.InvalidParam
	}
	sub.audio = on
	return otc.Success
}

func (e *Engine) SubscriberSubscribeToVideo(s otc.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subscribers[s]
	return sub != nil && sub.video
}

func (e *Engine) SubscriberSubscribeToAudio(s otc.Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subscribers[s]
	return sub != nil && sub.audio
}

func (e *Engine) SubscriberSetPreferredResolution(s otc.Handle, w, h uint32) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("subscriber_set_preferred_resolution", s, 0)
	sub, ok := e.subscribers[s]
	if !ok {
		return otc.InvalidParam
	}
	sub.width, sub.height = w, h
	return otc.Success
}

func (e *Engine) SubscriberPreferredResolution(s otc.Handle) (uint32, uint32, otc.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub, ok := e.subscribers[s]
	if !ok {
		return 0, 0, otc.InvalidParam
	}
	return sub.width, sub.height, otc.Success
}

func (e *Engine) SubscriberSetPreferredFramerate(s otc.Handle, fps float32) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("subscriber_set_preferred_framerate", s, 0)
	sub, ok := e.subscribers[s]
	if !ok {
		return otc.InvalidParam
	}
	sub.fps = fps
	return otc.Success
}

func (e *Engine) SubscriberPreferredFramerate(s otc.Handle) (float32, otc.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub, ok := e.subscribers[s]
	if !ok {
		return 0, otc.InvalidParam
	}
	return sub.fps, otc.Success
}

func (e *Engine) SubscriberID(s otc.Handle) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub := e.subscribers[s]; sub != nil {
		if st := e.streams[sub.stream]; st != nil {
			return "subscriber-" + st.ID
		}
	}
	return ""
}

func (e *Engine) stream(s otc.Handle) StreamInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if info := e.streams[s]; info != nil {
		return *info
	}
	return StreamInfo{}
}

func (e *Engine) StreamCopy(s otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, ok := e.streams[s]
	if !ok {
		return 0
	}
	cp := *info
	h := e.alloc()
	e.streams[h] = &cp
	e.record("stream_copy", h, s)
	return h
}

func (e *Engine) StreamDelete(s otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("stream_delete", s, 0)
	if _, ok := e.streams[s]; !ok {
		return otc.InvalidParam
	}
	delete(e.streams, s)
	return otc.Success
}

func (e *Engine) StreamID(s otc.Handle) string { return e.stream(s).ID }
func (e *Engine) StreamName(s otc.Handle) string { return e.stream(s).Name }
func (e *Engine) StreamHasVideo(s otc.Handle) bool { return e.stream(s).HasVideo }
func (e *Engine) StreamHasVideoTrack(s otc.Handle) bool { return e.stream(s).HasVideoTrack }
func (e *Engine) StreamHasAudio(s otc.Handle) bool { return e.stream(s).HasAudio }
func (e *Engine) StreamHasAudioTrack(s otc.Handle) bool { return e.stream(s).HasAudioTrack }
func (e *Engine) StreamVideoWidth(s otc.Handle) int32 { return e.stream(s).VideoWidth }
func (e *Engine) StreamVideoHeight(s otc.Handle) int32 { return e.stream(s).VideoHeight }
func (e *Engine) StreamCreationTime(s otc.Handle) int64 { return e.stream(s).CreationTime }
func (e *Engine) StreamVideoType(s otc.Handle) int32 { return e.stream(s).VideoType }
func (e *Engine) StreamConnection(s otc.Handle) otc.Handle {
	return e.stream(s).Connection
}

func (e *Engine) connection(c otc.Handle) ConnectionInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if info := e.connections[c]; info != nil {
		return *info
	}
	return ConnectionInfo{}
}

func (e *Engine) ConnectionCopy(c otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	info, ok := e.connections[c]
	if !ok {
		return 0
	}
	cp := *info
	h := e.alloc()
	e.connections[h] = &cp
	e.record("connection_copy", h, c)
	return h
}

func (e *Engine) ConnectionDelete(c otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("connection_delete", c, 0)
	if _, ok := e.connections[c]; !ok {
		return otc.InvalidParam
	}
	delete(e.connections, c)
	return otc.Success
}

func (e *Engine) ConnectionID(c otc.Handle) string { return e.connection(c).ID }
func (e *Engine) ConnectionCreationTime(c otc.Handle) int64 { return e.connection(c).CreationTime }
func (e *Engine) ConnectionData(c otc.Handle) string { return e.connection(c).Data }
func (e *Engine) ConnectionSessionID(c otc.Handle) string { return e.connection(c).SessionID }

func (e *Engine) VideoFrameNew(format, width, height int32, buffer []byte) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailCreate || width <= 0 || height <= 0 {
		return 0
	}
	h := e.alloc()
	e.frames[h] = &frame{format: format, width: width, height: height, buf: append([]byte(nil), buffer...)}
	e.record("video_frame_new", h, 0)
	return h
}

// AddFrame registers an engine-owned frame, as lent to render callbacks.
func (e *Engine) AddFrame(format, width, height int32, buffer []byte) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.alloc()
	e.frames[h] = &frame{format: format, width: width, height: height, buf: append([]byte(nil), buffer...)}
	return h
}

func (e *Engine) VideoFrameDelete(f otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("video_frame_delete", f, 0)
	if _, ok := e.frames[f]; !ok {
		return otc.InvalidParam
	}
	delete(e.frames, f)
	return otc.Success
}

func (e *Engine) VideoFrameCopy(f otc.Handle) otc.Handle {
	return e.VideoFrameConvert(-1, f)
}

// VideoFrameConvert relabels the format; pixel data is not transformed.
// A negative format keeps the source format.
func (e *Engine) VideoFrameConvert(format int32, f otc.Handle) otc.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	src, ok := e.frames[f]
	if !ok {
		return 0
	}
	cp := *src
	cp.buf = append([]byte(nil), src.buf...)
	if format >= 0 {
		cp.format = format
	}
	h := e.alloc()
	e.frames[h] = &cp
	e.record("video_frame_copy", h, f)
	return h
}

func (e *Engine) frame(f otc.Handle) frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fr := e.frames[f]; fr != nil {
		return *fr
	}
	return frame{}
}

func (e *Engine) VideoFrameBuffer(f otc.Handle) []byte {
	return append([]byte(nil), e.frame(f).buf...)
}

func (e *Engine) VideoFrameTimestamp(f otc.Handle) int64 { return e.frame(f).ts }

func (e *Engine) VideoFrameSetTimestamp(f otc.Handle, ts int64) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	fr, ok := e.frames[f]
	if !ok {
		return otc.InvalidParam
	}
	fr.ts = ts
	return otc.Success
}

func (e *Engine) VideoFrameWidth(f otc.Handle) int32 { return e.frame(f).width }
func (e *Engine) VideoFrameHeight(f otc.Handle) int32 { return e.frame(f).height }
func (e *Engine) VideoFrameFormat(f otc.Handle) int32 { return e.frame(f).format }

func (e *Engine) VideoFrameNumberOfPlanes(f otc.Handle) int {
	switch e.frame(f).format {
	case 1: // YUV420P
		return 3
	case 2, 3: // NV12, NV21
		return 2
	case 0:
		return 0
	default:
		return 1
	}
}

func (e *Engine) VideoFramePlaneSize(f otc.Handle, plane int32) int {
	fr := e.frame(f)
	stride := int(e.VideoFramePlaneStride(f, plane))
	h := int(fr.height)
	if fr.format == 1 && plane > 0 {
		h = (h + 1) / 2
	}
	return stride * h
}

func (e *Engine) VideoFramePlaneStride(f otc.Handle, plane int32) int32 {
	fr := e.frame(f)
	w := fr.width
	switch fr.format {
	case 1: // YUV420P
		if plane == 0 {
			return w
		}
		return (w + 1) / 2
	case 2, 3: // NV12, NV21
		return w
	case 4, 5: // YUY2, UYVY
		return w * 2
	case 8: // RGB24
		return w * 3
	case 6, 7, 9, 11: // 32-bit packed
		return w * 4
	default:
		return 0
	}
}

func (e *Engine) VideoCapturerProvideFrame(c otc.Handle, rotation int32, f otc.Handle) otc.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("video_capturer_provide_frame", c, f)
	if _, ok := e.frames[f]; !ok {
		return otc.InvalidParam
	}
	for _, p := range e.publishers {
		if p.capturer == c {
			return otc.Success
		}
	}
	return otc.VideoCaptureFailed
}

var _ otc.Engine = (*Engine)(nil)
