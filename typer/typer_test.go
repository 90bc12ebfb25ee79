package typer

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

// recordingEmitter captures emitted runes and can fail or report focus loss
// after a configured number of keystrokes.
type recordingEmitter struct {
	runes   []rune
	failAt  int // fail on the n-th emit (1-based), 0 = never
	emitErr error
}

func (e *recordingEmitter) EmitRune(r rune) error {
	if e.failAt > 0 && len(e.runes)+1 == e.failAt {
		return e.emitErr
	}
	e.runes = append(e.runes, r)
	return nil
}

// steadyConfig removes all randomness: fixed jitter of 1.0, no extra pauses.
func steadyConfig(wpm int) Config {
	return Config{WPM: wpm, JitterMin: 1, JitterMax: 1}
}

// newTestSimulator wires a simulator that records sleeps instead of sleeping.
func newTestSimulator(e Emitter, cfg Config) (*Simulator, *[]time.Duration) {
	s := NewWithRand(e, cfg, rand.New(rand.NewSource(1)))
	var slept []time.Duration
	s.sleep = func(d time.Duration, stop <-chan struct{}) bool {
		select {
		case <-stop:
			return false
		default:
		}
		slept = append(slept, d)
		return true
	}
	return s, &slept
}

func TestType_ZeroJitterTiming(t *testing.T) {
	em := &recordingEmitter{}
	s, slept := newTestSimulator(em, steadyConfig(60))

	text := "hello world"
	n, done := s.Type(text, nil, nil)

	if !done {
		t.Fatal("typing did not finish")
	}
	if n != len(text) {
		t.Fatalf("emitted %d keystrokes, want %d", n, len(text))
	}

	base := s.BaseDelay()
	if base != 200*time.Millisecond {
		t.Fatalf("base delay = %v, want 200ms at 60 wpm", base)
	}

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	want := time.Duration(len(text)) * base
	if total != want {
		t.Errorf("total delay = %v, want %v", total, want)
	}
}

func TestType_EmitsEveryRuneInOrder(t *testing.T) {
	em := &recordingEmitter{}
	s, _ := newTestSimulator(em, steadyConfig(600))

	text := "abc def."
	s.Type(text, nil, nil)

	if string(em.runes) != text {
		t.Errorf("emitted %q, want %q", string(em.runes), text)
	}
}

func TestType_CancelledBeforeStart(t *testing.T) {
	em := &recordingEmitter{}
	s, _ := newTestSimulator(em, steadyConfig(60))

	stop := make(chan struct{})
	close(stop)

	n, done := s.Type("never typed", stop, nil)
	if n != 0 || done {
		t.Errorf("got %d keystrokes (done=%v), want 0 and cancelled", n, done)
	}
}

func TestType_FocusLossStopsExactlyAtK(t *testing.T) {
	const k = 4
	em := &recordingEmitter{}
	s, _ := newTestSimulator(em, steadyConfig(60))

	calls := 0
	focused := func() bool {
		calls++
		return calls <= k
	}

	n, done := s.Type("abcdefghij", nil, focused)
	if done {
		t.Error("typing reported finished despite focus loss")
	}
	if n != k {
		t.Errorf("emitted %d keystrokes, want exactly %d", n, k)
	}
}

func TestType_EmitterFailureTreatedAsCancel(t *testing.T) {
	em := &recordingEmitter{failAt: 3, emitErr: errors.New("injection blocked")}
	s, _ := newTestSimulator(em, steadyConfig(60))

	n, done := s.Type("abcdef", nil, nil)
	if done {
		t.Error("typing reported finished despite emitter failure")
	}
	if n != 2 {
		t.Errorf("emitted %d keystrokes, want 2", n)
	}
}

func TestType_PunctuationPauses(t *testing.T) {
	cfg := steadyConfig(60)
	cfg.SentencePauseMin, cfg.SentencePauseMax = 0.5, 0.5
	cfg.ClausePauseMin, cfg.ClausePauseMax = 0.2, 0.2

	em := &recordingEmitter{}
	s, slept := newTestSimulator(em, cfg)

	s.Type("a,b.", nil, nil)

	base := s.BaseDelay()
	want := []time.Duration{
		base,
		base + 200*time.Millisecond,
		base,
		base + 500*time.Millisecond,
	}
	if len(*slept) != len(want) {
		t.Fatalf("got %d sleeps, want %d", len(*slept), len(want))
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("sleep[%d] = %v, want %v", i, (*slept)[i], d)
		}
	}
}

func TestType_ThinkingPauseInserted(t *testing.T) {
	cfg := steadyConfig(60)
	cfg.ThinkEveryMin, cfg.ThinkEveryMax = 3, 3
	cfg.ThinkPauseMin, cfg.ThinkPauseMax = 1.0, 1.0

	em := &recordingEmitter{}
	s, slept := newTestSimulator(em, cfg)

	s.Type("abcdef", nil, nil)

	// 6 per-character sleeps plus one thinking pause after every 3rd char.
	thinks := 0
	for _, d := range *slept {
		if d == time.Second {
			thinks++
		}
	}
	if thinks != 2 {
		t.Errorf("got %d thinking pauses, want 2", thinks)
	}
}

func TestType_EmptyText(t *testing.T) {
	em := &recordingEmitter{}
	s, slept := newTestSimulator(em, steadyConfig(60))

	n, done := s.Type("", nil, nil)
	if n != 0 || !done {
		t.Errorf("empty text: got %d keystrokes (done=%v), want 0 and finished", n, done)
	}
	if len(*slept) != 0 {
		t.Errorf("empty text slept %d times", len(*slept))
	}
}
