//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obinnaokechukwu/opentok/internal/otc"
)

// renderInterval is how often rendered audio is pulled from the engine.
// Each read asks for 10 ms worth of samples.
const renderInterval = 10 * time.Millisecond

// AudioSettings is a PCM format.
type AudioSettings struct {
	SamplingRate int `yaml:"sampling_rate"`
	Channels     int `yaml:"channels"`
}

// DefaultAudioSettings is 44.1 kHz mono.
func DefaultAudioSettings() AudioSettings {
	return AudioSettings{SamplingRate: 44100, Channels: 1}
}

func (s AudioSettings) withDefaults() AudioSettings {
	d := DefaultAudioSettings()
	if s.SamplingRate == 0 {
		s.SamplingRate = d.SamplingRate
	}
	if s.Channels == 0 {
		s.Channels = d.Channels
	}
	return s
}

func (s AudioSettings) validate() error {
	if s.SamplingRate < 0 || (s.SamplingRate > 0 && s.SamplingRate < 100) {
		return fmt.Errorf("sampling_rate %d out of range", s.SamplingRate)
	}
	if s.Channels < 0 || s.Channels > 2 {
		return fmt.Errorf("channels %d out of range", s.Channels)
	}
	return nil
}

// blockSize is the number of interleaved samples in 10 ms.
func (s AudioSettings) blockSize() int {
	return s.SamplingRate / 100 * s.Channels
}

// AudioSample is a block of interleaved signed 16-bit PCM.
type AudioSample struct {
	Data         []int16
	SamplingRate int
	Channels     int
}

// AudioCaptureListeners is notified when the engine starts and stops
// consuming captured audio.
type AudioCaptureListeners struct {
	OnStart func(d *AudioDevice)
	OnStop  func(d *AudioDevice)
}

// AudioRenderListeners is notified when the engine starts and stops
// producing audio to render.
type AudioRenderListeners struct {
	OnStart func(d *AudioDevice)
	OnStop  func(d *AudioDevice)
}

// AudioDevice replaces the engine's audio I/O. There is one per Context,
// installed by Init.
//
// Captured audio is pushed in with PushAudioSample. Rendered audio (the mix
// of every subscribed stream) is pulled from the engine every 10 ms while
// the engine has the renderer started and handed to each callback added
// with SetOnAudioSampleCallback.
type AudioDevice struct {
	ctx   *Context
	token uintptr
	log   *logrus.Entry

	mu             sync.Mutex
	capture        *AudioCaptureListeners
	render         *AudioRenderListeners
	captureSetting AudioSettings
	renderSetting  AudioSettings
	onSample       []func(AudioSample)

	capturing  atomic.Bool
	rendering  atomic.Bool
	renderStop chan struct{}
	renderWG   sync.WaitGroup
}

func newAudioDevice(c *Context, capture, render AudioSettings) *AudioDevice {
	d := &AudioDevice{
		ctx:            c,
		log:            c.log.WithField("device", "audio"),
		captureSetting: capture.withDefaults(),
		renderSetting:  render.withDefaults(),
	}
	d.token = c.registry.Register(d)
	return d
}

// SetCaptureCallbacks installs the capture listeners. It succeeds once.
func (d *AudioDevice) SetCaptureCallbacks(l AudioCaptureListeners) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.capture != nil {
		return newError(KindCaptureCallbacksOverrideNotAllowed, "audio device set capture callbacks")
	}
	d.capture = &l
	return nil
}

// SetRenderCallbacks installs the render listeners. It succeeds once.
func (d *AudioDevice) SetRenderCallbacks(l AudioRenderListeners) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.render != nil {
		return newError(KindRenderCallbacksOverrideNotAllowed, "audio device set render callbacks")
	}
	d.render = &l
	return nil
}

// SetOnAudioSampleCallback adds a receiver of rendered audio. Every
// receiver gets its own copy of each block.
func (d *AudioDevice) SetOnAudioSampleCallback(fn func(AudioSample)) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	d.onSample = append(d.onSample, fn)
	d.mu.Unlock()
}

// OverrideCaptureSettings changes the format reported to the engine the
// next time it asks. Zero fields keep their defaults.
func (d *AudioDevice) OverrideCaptureSettings(s AudioSettings) {
	d.mu.Lock()
	d.captureSetting = s.withDefaults()
	d.mu.Unlock()
}

// OverrideRenderSettings changes the render format. It takes effect the
// next time the engine starts the renderer.
func (d *AudioDevice) OverrideRenderSettings(s AudioSettings) {
	d.mu.Lock()
	d.renderSetting = s.withDefaults()
	d.mu.Unlock()
}

// CaptureSettings returns the settings reported for capture.
func (d *AudioDevice) CaptureSettings() AudioSettings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.captureSetting
}

// RenderSettings returns the settings reported for rendering.
func (d *AudioDevice) RenderSettings() AudioSettings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderSetting
}

// Capturing reports whether the engine is consuming captured audio.
func (d *AudioDevice) Capturing() bool {
	return d.capturing.Load()
}

// Rendering reports whether the render loop is running.
func (d *AudioDevice) Rendering() bool {
	return d.rendering.Load()
}

// PushAudioSample writes captured PCM in the capture format. Samples pushed
// before the engine starts the capturer are dropped.
func (d *AudioDevice) PushAudioSample(samples []int16) error {
	if !d.capturing.Load() {
		d.log.WithFields(logrus.Fields{
			"function": "PushAudioSample",
			"samples":  len(samples),
		}).Warn("audio capturer is not ready yet, dropping audio sample")
		return nil
	}
	if len(samples) == 0 {
		return nil
	}
	return statusError(d.ctx.engine.AudioWriteCaptureData(samples), "audio device write capture data")
}

func (d *AudioDevice) startCapturer() bool {
	d.capturing.Store(true)
	d.mu.Lock()
	l := d.capture
	d.mu.Unlock()
	if l != nil && l.OnStart != nil {
		l.OnStart(d)
	}
	return true
}

func (d *AudioDevice) stopCapturer() bool {
	d.capturing.Store(false)
	d.mu.Lock()
	l := d.capture
	d.mu.Unlock()
	if l != nil && l.OnStop != nil {
		l.OnStop(d)
	}
	return true
}

func (d *AudioDevice) startRenderer() bool {
	if !d.rendering.CompareAndSwap(false, true) {
		return true
	}
	d.mu.Lock()
	settings := d.renderSetting
	l := d.render
	stop := make(chan struct{})
	d.renderStop = stop
	d.mu.Unlock()

	d.renderWG.Add(1)
	go d.renderLoop(settings, stop)

	d.log.WithFields(logrus.Fields{
		"function":      "startRenderer",
		"sampling_rate": settings.SamplingRate,
		"channels":      settings.Channels,
	}).Debug("audio render loop started")
	if l != nil && l.OnStart != nil {
		l.OnStart(d)
	}
	return true
}

// stopRenderer signals the loop without waiting for it; it runs on an
// engine thread the loop may itself be waiting on.
func (d *AudioDevice) stopRenderer() bool {
	if !d.rendering.CompareAndSwap(true, false) {
		return true
	}
	d.mu.Lock()
	close(d.renderStop)
	d.renderStop = nil
	l := d.render
	d.mu.Unlock()
	if l != nil && l.OnStop != nil {
		l.OnStop(d)
	}
	return true
}

func (d *AudioDevice) renderLoop(settings AudioSettings, stop <-chan struct{}) {
	defer d.renderWG.Done()
	size := settings.blockSize()
	if size <= 0 {
		return
	}
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		buf := make([]int16, size)
		n := d.ctx.engine.AudioReadRenderData(buf)
		if n <= 0 {
			continue
		}
		if n > size {
			n = size
		}
		buf = buf[:n]

		d.mu.Lock()
		callbacks := d.onSample
		d.mu.Unlock()
		for i, fn := range callbacks {
			data := buf
			if i < len(callbacks)-1 {
				data = append([]int16(nil), buf...)
			}
			fn(AudioSample{Data: data, SamplingRate: settings.SamplingRate, Channels: settings.Channels})
		}
	}
}

// stop ends capture and rendering and waits for the render loop to exit.
func (d *AudioDevice) stop() {
	d.capturing.Store(false)
	d.stopRenderer()
	d.renderWG.Wait()
}

func (d *AudioDevice) engineCaptureSettings() otc.AudioSettings {
	s := d.CaptureSettings()
	return otc.AudioSettings{SamplingRate: int32(s.SamplingRate), NumberOfChannels: int32(s.Channels)}
}

func (d *AudioDevice) engineRenderSettings() otc.AudioSettings {
	s := d.RenderSettings()
	return otc.AudioSettings{SamplingRate: int32(s.SamplingRate), NumberOfChannels: int32(s.Channels)}
}
