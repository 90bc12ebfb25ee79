// Package hotkey binds global keyboard shortcuts to session triggers.
package hotkey

import (
	"errors"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// ErrAlreadyRunning is returned by Start when the manager is active.
var ErrAlreadyRunning = errors.New("hotkey: already running")

// ErrStopped is returned by Start after Stop. gohook keeps registered
// handlers in package-level state across End/Start cycles, so re-registering
// through the same manager would fire every callback twice; binding changes
// go through a fresh manager instead.
var ErrStopped = errors.New("hotkey: manager stopped, create a new one")

// Bindings names the keys for each trigger. Keys accept either bare names
// ("f8") or the bracketed form ("<f8>") used by older config files.
type Bindings struct {
	Record  string
	Type    string
	Improve string
}

// Manager owns the global keyboard hook and dispatches registered
// callbacks on key-down events. Callbacks run on the hook goroutine and
// must not block. A manager is single-use: once stopped it cannot be
// started again (see ErrStopped).
type Manager struct {
	bindings  Bindings
	onRecord  func()
	onType    func()
	onImprove func()

	mu      sync.Mutex
	running bool
	stopped bool
	done    chan struct{}
}

// NewManager creates a manager for the given bindings. Nil callbacks are
// allowed and simply ignore their key.
func NewManager(b Bindings, onRecord, onType, onImprove func()) *Manager {
	return &Manager{
		bindings:  b,
		onRecord:  onRecord,
		onType:    onType,
		onImprove: onImprove,
	}
}

// Start installs the global hook and begins dispatching events. It returns
// once the hook is installed; events are delivered on a background
// goroutine until Stop is called.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}
	if m.stopped {
		return ErrStopped
	}

	register := func(key string, cb func()) {
		if key == "" || cb == nil {
			return
		}
		hook.Register(hook.KeyDown, []string{Normalize(key)}, func(hook.Event) {
			cb()
		})
	}
	register(m.bindings.Record, m.onRecord)
	register(m.bindings.Type, m.onType)
	register(m.bindings.Improve, m.onImprove)

	events := hook.Start()
	done := make(chan struct{})
	go func() {
		<-hook.Process(events)
		close(done)
	}()

	m.running = true
	m.done = done
	return nil
}

// Stop uninstalls the hook and waits for the event loop to exit. Stopping
// an idle manager is a no-op. A stopped manager cannot be restarted; to
// change bindings, stop this manager and start a new one.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	hook.End()
	<-m.done
	m.running = false
	m.stopped = true
	m.done = nil
}

// Normalize converts a configured key name to the form gohook expects:
// lowercase with any surrounding angle brackets removed, so "<F8>" and
// "f8" bind the same key.
func Normalize(key string) string {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "<")
	key = strings.TrimSuffix(key, ">")
	return strings.ToLower(key)
}
