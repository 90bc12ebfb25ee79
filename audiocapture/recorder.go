// Package audiocapture provides microphone capture and thread-safe
// accumulation of PCM audio frames.
package audiocapture

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotRecording is returned when stopping a recorder that is not active.
var ErrNotRecording = errors.New("not recording")

// ErrAlreadyRecording is returned when starting a recorder that is active.
var ErrAlreadyRecording = errors.New("already recording")

// ErrDevice wraps capture device failures observed mid-session.
var ErrDevice = errors.New("audio device error")

// Device is an input stream abstraction. Implementations deliver captured
// frames on their own thread via onFrames and report asynchronous stream
// failures via onError. Stop must be safe to call more than once.
type Device interface {
	Start(onFrames func(samples []float32), onError func(err error)) error
	Stop() error
}

// Config holds recorder configuration.
type Config struct {
	SampleRate  int           // default 16000 Hz (what Whisper expects)
	Channels    int           // default 1 (mono)
	MaxDuration time.Duration // optional cap; oldest frames evicted past it. 0 = unbounded.
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Channels:   1,
	}
}

// Recorder accumulates audio frames delivered by a capture device.
// Frames are appended by the device callback thread and read by Snapshot
// callers; a single mutex guards the frame list for exactly those two
// operations. Chunks are never mutated after append, so concatenation
// happens outside the lock.
type Recorder struct {
	device     Device
	sampleRate int
	channels   int
	maxSamples int

	mu     sync.Mutex
	active bool
	frames [][]float32
	total  int
	devErr error
}

// NewRecorder creates a recorder backed by the given device.
func NewRecorder(device Device, cfg Config) *Recorder {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	maxSamples := 0
	if cfg.MaxDuration > 0 {
		maxSamples = int(cfg.MaxDuration.Seconds() * float64(cfg.SampleRate) * float64(cfg.Channels))
	}

	return &Recorder{
		device:     device,
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		maxSamples: maxSamples,
	}
}

// SampleRate returns the configured sample rate.
func (r *Recorder) SampleRate() int { return r.sampleRate }

// Active reports whether a recording session is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start clears accumulated frames and begins a new recording session.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	if err := r.devErr; err != nil {
		r.devErr = nil
		r.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDevice, err)
	}
	r.frames = nil
	r.total = 0
	r.active = true
	r.mu.Unlock()

	if err := r.device.Start(r.ingest, r.fail); err != nil {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return fmt.Errorf("start capture: %w", err)
	}
	return nil
}

// ingest is the device callback. It copies the chunk (the device may reuse
// its buffer) and appends it under the lock. Never blocks beyond lock
// acquisition.
func (r *Recorder) ingest(samples []float32) {
	if len(samples) == 0 {
		return
	}
	chunk := make([]float32, len(samples))
	copy(chunk, samples)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.frames = append(r.frames, chunk)
	r.total += len(chunk)
	for r.maxSamples > 0 && r.total > r.maxSamples && len(r.frames) > 1 {
		r.total -= len(r.frames[0])
		r.frames = r.frames[1:]
	}
}

// fail latches an asynchronous device error and marks the session inactive.
// The next Start or Stop observes the error.
func (r *Recorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.devErr == nil {
		r.devErr = err
	}
	r.active = false
}

// Snapshot returns a copy of all accumulated samples, in ingestion order,
// without mutating recorder state. The chunk list header is copied under the
// lock; concatenation runs outside it.
func (r *Recorder) Snapshot() []float32 {
	r.mu.Lock()
	frames := r.frames
	total := r.total
	r.mu.Unlock()

	if total == 0 {
		return nil
	}
	out := make([]float32, 0, total)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

// Stop ends the recording session and returns the final snapshot.
// Returns ErrNotRecording when no session is active, or ErrDevice when the
// device failed mid-session.
func (r *Recorder) Stop() ([]float32, error) {
	r.mu.Lock()
	if !r.active {
		err := r.devErr
		r.devErr = nil
		r.mu.Unlock()
		_ = r.device.Stop()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDevice, err)
		}
		return nil, ErrNotRecording
	}
	r.active = false
	r.mu.Unlock()

	if err := r.device.Stop(); err != nil {
		return nil, fmt.Errorf("stop capture: %w", err)
	}
	return r.Snapshot(), nil
}
