// Package session orchestrates one dictation pipeline: recording, live
// preview, transcription, optional rewriting, and keystroke delivery.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/voxtype/voxtype/audiocapture"
	"github.com/voxtype/voxtype/history"
	"github.com/voxtype/voxtype/langdetect"
	"github.com/voxtype/voxtype/window"
)

// Transcriber converts captured samples to text. It may block for seconds
// and is always called off the control goroutine.
type Transcriber interface {
	Transcribe(samples []float32, language string) (string, error)
}

// Improver rewrites a transcript. On failure it returns the input text
// unchanged along with the error.
type Improver interface {
	Improve(ctx context.Context, text, promptTemplate string) (string, error)
}

// Typist emits text as synthetic keystrokes. It returns the number of runes
// emitted and whether the full text was delivered. Closing stop or a false
// focused() aborts mid-stream.
type Typist interface {
	Type(text string, stop <-chan struct{}, focused func() bool) (n int, completed bool)
}

// Deps are the controller's collaborators. History is optional.
type Deps struct {
	Recorder    *audiocapture.Recorder
	Transcriber Transcriber
	Improver    Improver
	Typist      Typist
	Windows     window.Manager
	History     *history.Store
	Logger      *slog.Logger
}

// Options tune controller behavior. Zero values select the defaults.
type Options struct {
	Language       string
	PromptTemplate string

	RefocusWindow   bool
	FocusSettle     time.Duration
	CopyToClipboard bool

	LivePreview    bool
	LiveInterval   time.Duration
	LiveThrottle   time.Duration
	LiveMinSamples int

	// OnLog receives human-readable progress lines, OnStatus receives state
	// labels, OnPreview receives the current text and, when it came from a
	// rewrite, the prior text. All three are fire-and-forget, may be invoked
	// from goroutines other than the caller's, and must not block.
	OnLog     func(msg string)
	OnStatus  func(status string)
	OnPreview func(text, original string)
}

const (
	defaultFocusSettle    = 300 * time.Millisecond
	defaultLiveInterval   = 500 * time.Millisecond
	defaultLiveThrottle   = 800 * time.Millisecond
	defaultLiveMinSamples = 8000
)

// Controller is the session state machine. Triggers arrive through Dispatch
// and are applied one at a time on the Run goroutine; transcription,
// rewriting, and typing each run on their own worker goroutine and marshal
// their results back through the same loop.
type Controller struct {
	deps   Deps
	opts   Options
	logger *slog.Logger

	triggers chan Trigger
	calls    chan func()

	mu       sync.Mutex
	state    State
	paused   bool
	pending  string
	original string

	target    window.Handle
	hasTarget bool

	liveStop   chan struct{}
	liveDone   chan struct{}
	typingStop chan struct{}

	runCtx context.Context
}

// NewController wires the controller; call Run to start it.
func NewController(deps Deps, opts Options) *Controller {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.FocusSettle == 0 {
		opts.FocusSettle = defaultFocusSettle
	}
	if opts.LiveInterval == 0 {
		opts.LiveInterval = defaultLiveInterval
	}
	if opts.LiveThrottle == 0 {
		opts.LiveThrottle = defaultLiveThrottle
	}
	if opts.LiveMinSamples == 0 {
		opts.LiveMinSamples = defaultLiveMinSamples
	}
	return &Controller{
		deps:     deps,
		opts:     opts,
		logger:   deps.Logger,
		triggers: make(chan Trigger, 8),
		calls:    make(chan func(), 8),
		state:    StateIdle,
	}
}

// Dispatch delivers a trigger without blocking the caller. Triggers arriving
// faster than the controller drains them are dropped.
func (c *Controller) Dispatch(t Trigger) {
	select {
	case c.triggers <- t:
	default:
		c.logger.Debug("trigger dropped", "trigger", t.String())
	}
}

// Run services triggers and worker completions until ctx is cancelled. Any
// in-flight typing is cancelled and an active recording is discarded on the
// way out.
func (c *Controller) Run(ctx context.Context) {
	c.runCtx = ctx
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case t := <-c.triggers:
			c.handle(t)
		case f := <-c.calls:
			f()
		}
	}
}

// State reports the current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Paused reports whether triggers are currently gated.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// PendingText returns the current transcript candidate and, when it came
// from a rewrite, the pre-rewrite text.
func (c *Controller) PendingText() (text, original string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.original
}

func (c *Controller) handle(t Trigger) {
	if t == TriggerPause {
		c.togglePause()
		return
	}
	if c.Paused() {
		c.logger.Debug("trigger ignored while paused", "trigger", t.String())
		return
	}
	switch t {
	case TriggerRecord:
		c.handleRecordToggle()
	case TriggerType:
		c.handleConfirmType()
	case TriggerImprove:
		c.handleImprove()
	}
}

func (c *Controller) togglePause() {
	c.mu.Lock()
	c.paused = !c.paused
	paused, state := c.paused, c.state
	c.mu.Unlock()

	if paused {
		c.logger.Info("session paused")
		c.publishLog("Paused")
		c.publishStatus("Paused")
	} else {
		c.logger.Info("session resumed")
		c.publishLog("Resumed")
		c.publishStatus(state.String())
	}
}

func (c *Controller) handleRecordToggle() {
	switch c.State() {
	case StateRecording:
		c.stopRecording()
	case StateIdle, StateTextReady:
		c.startRecording()
	default:
		// At most one heavy action runs at a time; a toggle arriving while
		// busy is dropped, not queued.
		c.logger.Debug("record toggle ignored", "state", c.State().String())
	}
}

func (c *Controller) startRecording() {
	var target window.Handle
	var hasTarget bool
	if c.opts.RefocusWindow && c.deps.Windows != nil {
		if h, ok := c.deps.Windows.Active(); ok {
			target, hasTarget = h, true
		} else {
			c.logger.Warn("could not capture active window; typing will not refocus")
		}
	}

	// Pending text is cleared only once the recorder is actually running, so
	// a device failure here leaves the previous transcript retypeable.
	if err := c.deps.Recorder.Start(); err != nil {
		c.logger.Error("start recording failed", "err", err)
		c.publishLog(fmt.Sprintf("Could not start recording: %v", err))
		c.setState(StateIdle)
		return
	}

	c.mu.Lock()
	c.pending = ""
	c.original = ""
	c.target, c.hasTarget = target, hasTarget
	c.mu.Unlock()

	if c.opts.LivePreview {
		c.liveStop = make(chan struct{})
		c.liveDone = make(chan struct{})
		go c.liveLoop(c.liveStop, c.liveDone)
	}

	c.publishPreview("", "")
	c.setState(StateRecording)
	c.logger.Info("recording started")
	c.publishLog("Recording started")
}

func (c *Controller) stopRecording() {
	c.stopLive()

	samples, err := c.deps.Recorder.Stop()
	if err != nil {
		c.logger.Error("stop recording failed", "err", err)
		c.setState(StateIdle)
		return
	}
	if len(samples) == 0 {
		c.logger.Info("recording empty, nothing to transcribe")
		c.publishLog("Recording empty")
		c.setState(StateIdle)
		return
	}

	c.setState(StateProcessing)
	c.logger.Info("transcribing", "samples", len(samples))
	c.publishLog("Transcribing...")

	go func() {
		text, terr := c.deps.Transcriber.Transcribe(samples, c.opts.Language)
		c.calls <- func() { c.finishTranscription(text, terr) }
	}()
}

// stopLive signals the preview poller and waits for it to exit so the final
// snapshot is never taken while the poller is still reading the buffer.
func (c *Controller) stopLive() {
	if c.liveStop == nil {
		return
	}
	close(c.liveStop)
	<-c.liveDone
	c.liveStop = nil
	c.liveDone = nil
}

func (c *Controller) finishTranscription(text string, err error) {
	if err != nil {
		c.logger.Error("transcription failed", "err", err)
		c.publishLog(fmt.Sprintf("Transcription failed: %v", err))
		c.setState(StateIdle)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Info("transcription empty")
		c.setState(StateIdle)
		return
	}

	c.mu.Lock()
	c.pending = text
	c.original = ""
	c.mu.Unlock()

	code, name := langdetect.Detect(text)
	c.logger.Info("transcription ready", "chars", len(text), "language", name)
	c.publishLog(fmt.Sprintf("Transcription ready (%d chars, %s)", len(text), name))
	c.record(text, "", code)
	c.copyToClipboard(text)

	c.publishPreview(text, "")
	c.setState(StateTextReady)
}

func (c *Controller) handleImprove() {
	// Pending text survives typing, so improving is allowed from Idle too.
	if st := c.State(); st != StateTextReady && st != StateIdle {
		c.logger.Debug("improve ignored", "state", st.String())
		return
	}
	prior, _ := c.PendingText()
	if prior == "" {
		c.logger.Info("no text to improve")
		return
	}
	if c.deps.Improver == nil {
		c.logger.Warn("no improvement provider configured")
		return
	}

	c.setState(StateImproving)
	go func() {
		improved, ierr := c.deps.Improver.Improve(c.runCtx, prior, c.opts.PromptTemplate)
		c.calls <- func() { c.finishImprovement(prior, improved, ierr) }
	}()
}

func (c *Controller) finishImprovement(prior, improved string, err error) {
	if err != nil {
		// The prior transcript stays pending; the user can retry or type it.
		c.logger.Error("improvement failed", "err", err)
		c.publishLog(fmt.Sprintf("Improvement failed: %v", err))
		c.setState(StateTextReady)
		return
	}
	if improved == prior {
		c.logger.Info("improvement made no changes")
		c.setState(StateTextReady)
		return
	}

	c.mu.Lock()
	c.pending = improved
	c.original = prior
	c.mu.Unlock()

	code, _ := langdetect.Detect(improved)
	c.logger.Info("improvement ready", "chars", len(improved))
	c.publishLog("Text improved")
	c.record(improved, prior, code)
	c.copyToClipboard(improved)

	c.publishPreview(improved, prior)
	c.setState(StateTextReady)
}

func (c *Controller) handleConfirmType() {
	if c.State() == StateTyping {
		// Toggle semantics: a second confirm cancels the running task.
		if c.typingStop != nil {
			close(c.typingStop)
			c.typingStop = nil
		}
		return
	}
	// Pending text survives typing, so retyping is allowed from Idle.
	if st := c.State(); st != StateTextReady && st != StateIdle {
		c.logger.Debug("confirm-type ignored", "state", st.String())
		return
	}
	text, _ := c.PendingText()
	if text == "" {
		c.logger.Info("no text to type")
		return
	}

	c.mu.Lock()
	target, hasTarget := c.target, c.hasTarget
	c.mu.Unlock()

	refocus := c.opts.RefocusWindow && hasTarget && c.deps.Windows != nil
	if refocus && !c.deps.Windows.IsFocused(target) {
		if !c.deps.Windows.Focus(target) {
			// Keystrokes must never land in the wrong application.
			c.logger.Warn("focus restore failed, typing aborted")
			c.publishLog("Could not refocus target window; typing aborted")
			return
		}
	}

	stop := make(chan struct{})
	c.typingStop = stop
	c.setState(StateTyping)

	focused := func() bool {
		if !refocus {
			return true
		}
		return c.deps.Windows.IsFocused(target)
	}

	go func() {
		if refocus {
			// Give the window system a moment to settle after activation.
			select {
			case <-stop:
			case <-time.After(c.opts.FocusSettle):
			}
		}
		n, completed := c.deps.Typist.Type(text, stop, focused)
		c.calls <- func() { c.finishTyping(stop, n, completed) }
	}()
}

func (c *Controller) finishTyping(stop chan struct{}, n int, completed bool) {
	if c.typingStop == stop {
		c.typingStop = nil
	}
	if completed {
		c.logger.Info("typing finished", "chars", n)
		c.publishLog(fmt.Sprintf("Typed %d characters", n))
	} else {
		c.logger.Info("typing aborted", "chars", n)
		c.publishLog(fmt.Sprintf("Typing cancelled after %d characters", n))
	}
	// Pending text is retained so the dictation can be retyped or rewritten.
	c.setState(StateIdle)
}

func (c *Controller) shutdown() {
	if c.typingStop != nil {
		close(c.typingStop)
		c.typingStop = nil
	}
	c.stopLive()
	if c.State() == StateRecording {
		if _, err := c.deps.Recorder.Stop(); err != nil {
			c.logger.Debug("discarding recording on shutdown", "err", err)
		}
	}
}

func (c *Controller) record(text, original, language string) {
	if c.deps.History == nil {
		return
	}
	err := c.deps.History.Append(history.Entry{
		Text:     text,
		Original: original,
		Language: language,
	})
	if err != nil {
		c.logger.Warn("history append failed", "err", err)
	}
}

func (c *Controller) copyToClipboard(text string) {
	if !c.opts.CopyToClipboard {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		c.logger.Warn("clipboard copy failed", "err", err)
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.publishStatus(s.String())
}

func (c *Controller) publishStatus(status string) {
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(status)
	}
}

func (c *Controller) publishLog(msg string) {
	if c.opts.OnLog != nil {
		c.opts.OnLog(msg)
	}
}

func (c *Controller) publishPreview(text, original string) {
	if c.opts.OnPreview != nil {
		c.opts.OnPreview(text, original)
	}
}
