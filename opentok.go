//go:build !ios && !android && (amd64 || arm64)

// Package opentok is a safe Go interface to the OpenTok native engine
// (libopentok), loaded at runtime without cgo.
//
// A Context owns one initialized engine. Sessions, publishers, subscribers
// and video capturers are created from it and receive engine events through
// plain listener structs:
//
//	ctx, err := opentok.Init(opentok.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctx.Deinit()
//
//	session, err := ctx.NewSession(apiKey, sessionID, opentok.SessionListeners{
//		OnConnected: func(s *opentok.Session) { log.Println("connected") },
//	})
//
// Listeners run on engine threads. Entities delivered to them (streams,
// connections, frames) are copies owned by the listener.
package opentok

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/handles"
	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// live is set while a Context backed by the native library exists. The
// engine is a process-wide singleton.
var live atomic.Bool

// library is the loaded engine as Init uses it.
type library interface {
	otc.Engine
	Path() string
	Close() error
}

var openLibrary = func(path string) (library, error) {
	lib, err := otc.Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Context is an initialized engine and everything created from it.
type Context struct {
	engine   otc.Engine
	registry *handles.Registry
	log      *logrus.Entry
	audio    *AudioDevice

	closed  atomic.Bool
	release func()

	logMu        sync.Mutex
	logCallbacks []func(string)
	forwardLogs  bool
	loggerOn     bool
}

// Init loads libopentok and initializes the engine.
//
// Only one Context may be live per process; a second Init before Deinit
// fails with ErrAlreadyInitialized.
func Init(cfg Config) (*Context, error) {
	if !live.CompareAndSwap(false, true) {
		return nil, newError(KindAlreadyInitialized, "init")
	}
	if err := cfg.Validate(); err != nil {
		live.Store(false)
		return nil, err
	}
	lib, err := openLibrary(cfg.LibraryPath)
	if err != nil {
		live.Store(false)
		return nil, fmt.Errorf("%w: %w", newError(KindInitializationFailure, "init"), err)
	}
	c, err := newContext(lib, cfg)
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			cfg.logger().WithFields(logrus.Fields{
				"function": "Init",
				"library":  lib.Path(),
			}).WithError(cerr).Warn("could not unload library")
		}
		live.Store(false)
		return nil, err
	}
	c.release = func() { live.Store(false) }
	c.log.WithField("library", lib.Path()).Info("engine initialized")
	return c, nil
}

// newContext initializes e and installs the audio device.
func newContext(e otc.Engine, cfg Config) (*Context, error) {
	c := &Context{
		engine:      e,
		registry:    handles.NewRegistry(),
		log:         logrus.NewEntry(cfg.logger()).WithField("component", "opentok"),
		forwardLogs: cfg.ForwardEngineLogs,
	}

	if st := e.Init(dispatcher{c}); st != otc.Success {
		c.log.WithFields(logrus.Fields{
			"function": "Init",
			"status":   int32(st),
		}).Error("otc_init failed")
		return nil, &Error{Kind: KindInitializationFailure, Code: int32(st), Op: "init"}
	}

	e.LogEnable(int32(cfg.LogLevel))
	if cfg.ForwardEngineLogs {
		c.loggerOn = true
		e.SetLogger(true)
	}

	c.audio = newAudioDevice(c, cfg.CaptureAudio, cfg.RenderAudio)
	if st := e.SetAudioDevice(c.audio.token); st != otc.Success {
		c.log.WithFields(logrus.Fields{
			"function": "Init",
			"status":   int32(st),
		}).Warn("could not install audio device callbacks")
	}
	return c, nil
}

func (c *Context) checkOpen(op string) error {
	if c.closed.Load() {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}
	return nil
}

// AudioDevice returns the engine's single audio device.
func (c *Context) AudioDevice() *AudioDevice {
	return c.audio
}

// Deinit tears everything down and destroys the engine. The library stays
// loaded for the life of the process.
//
// Publishers are unpublished and subscribers unsubscribed first, then
// sessions are disconnected, then every remaining object is deleted and
// otc_destroy is called. Objects created from the Context must not be used
// afterwards; their methods return ErrNullHandle.
func (c *Context) Deinit() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.audio.stop()

	var (
		sessions    []*Session
		publishers  []*Publisher
		subscribers []*Subscriber
		capturers   []*VideoCapturer
	)
	for _, v := range c.registry.Snapshot() {
		switch o := v.(type) {
		case *Session:
			sessions = append(sessions, o)
		case *Publisher:
			publishers = append(publishers, o)
		case *Subscriber:
			subscribers = append(subscribers, o)
		case *VideoCapturer:
			capturers = append(capturers, o)
		}
	}

	for _, p := range publishers {
		_ = p.Unpublish()
	}
	for _, s := range subscribers {
		_ = s.Unsubscribe()
	}
	for _, s := range sessions {
		_ = s.Disconnect()
	}
	for _, p := range publishers {
		p.destroy()
	}
	for _, s := range subscribers {
		s.destroy()
	}
	for _, s := range sessions {
		s.destroy()
	}
	for _, vc := range capturers {
		vc.destroy()
	}

	st := c.engine.Destroy()
	c.registry.Unregister(c.audio.token)
	if c.release != nil {
		c.release()
	}

	c.log.WithFields(logrus.Fields{
		"function":    "Deinit",
		"sessions":    len(sessions),
		"publishers":  len(publishers),
		"subscribers": len(subscribers),
	}).Info("engine destroyed")
	return statusError(st, "deinit")
}
