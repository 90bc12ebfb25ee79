// Package typer emits text as synthetic keystrokes with human-like timing.
package typer

import (
	"math/rand"
	"strings"
	"time"
)

const charsPerWord = 5.0

// Emitter posts a single character as a synthetic key event.
type Emitter interface {
	EmitRune(r rune) error
}

// Config holds the timing model. All ranges are injectable so tests can run
// with fixed jitter and zero pauses.
type Config struct {
	WPM int // target typing speed, words per minute

	// Per-character jitter multiplier applied to the base delay.
	JitterMin float64
	JitterMax float64

	// Extra pause after sentence-ending punctuation (seconds).
	SentencePauseMin float64
	SentencePauseMax float64

	// Extra pause after clause punctuation (seconds).
	ClausePauseMin float64
	ClausePauseMax float64

	// Occasional "thinking" pause (seconds), inserted every
	// ThinkEveryMin..ThinkEveryMax characters with the interval
	// re-randomized each time.
	ThinkPauseMin float64
	ThinkPauseMax float64
	ThinkEveryMin int
	ThinkEveryMax int
}

// DefaultConfig returns the default humanized timing model.
func DefaultConfig() Config {
	return Config{
		WPM:              40,
		JitterMin:        0.7,
		JitterMax:        1.3,
		SentencePauseMin: 0.3,
		SentencePauseMax: 0.6,
		ClausePauseMin:   0.1,
		ClausePauseMax:   0.3,
		ThinkPauseMin:    0.2,
		ThinkPauseMax:    0.8,
		ThinkEveryMin:    15,
		ThinkEveryMax:    30,
	}
}

// Simulator types text through an Emitter, one rune at a time, checking the
// stop channel and the focus predicate before every keystroke.
type Simulator struct {
	emitter Emitter
	cfg     Config
	rng     *rand.Rand
	sleep   func(d time.Duration, stop <-chan struct{}) bool
}

// New creates a simulator seeded from the wall clock.
func New(emitter Emitter, cfg Config) *Simulator {
	return NewWithRand(emitter, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a simulator with an explicit random source, so callers
// can make the timing deterministic.
func NewWithRand(emitter Emitter, cfg Config, rng *rand.Rand) *Simulator {
	if cfg.WPM <= 0 {
		cfg.WPM = DefaultConfig().WPM
	}
	return &Simulator{
		emitter: emitter,
		cfg:     cfg,
		rng:     rng,
		sleep:   sleepFor,
	}
}

// BaseDelay returns the per-character delay before jitter.
func (s *Simulator) BaseDelay() time.Duration {
	return time.Duration(float64(time.Minute) / (float64(s.cfg.WPM) * charsPerWord))
}

// Type emits text character by character. It stops immediately when the stop
// channel is signaled, when focused returns false, or when the emitter fails;
// none of these are errors at this layer. Returns the number of runes handed
// to the emitter and whether the whole text was processed. Emitters may
// silently skip runes they cannot map, so the count is an upper bound on the
// keystrokes actually delivered.
func (s *Simulator) Type(text string, stop <-chan struct{}, focused func() bool) (int, bool) {
	if text == "" {
		return 0, true
	}

	base := s.BaseDelay()
	sinceThink := 0
	nextThink := s.thinkInterval()
	emitted := 0

	for _, r := range text {
		select {
		case <-stop:
			return emitted, false
		default:
		}
		if focused != nil && !focused() {
			return emitted, false
		}

		if err := s.emitter.EmitRune(r); err != nil {
			// OS input injection failed: treat as cancellation, no retry.
			return emitted, false
		}
		emitted++

		delay := time.Duration(float64(base) * s.uniform(s.cfg.JitterMin, s.cfg.JitterMax))
		switch {
		case strings.ContainsRune(".!?", r):
			delay += s.pause(s.cfg.SentencePauseMin, s.cfg.SentencePauseMax)
		case strings.ContainsRune(",;:", r):
			delay += s.pause(s.cfg.ClausePauseMin, s.cfg.ClausePauseMax)
		}
		if !s.sleep(delay, stop) {
			return emitted, false
		}

		sinceThink++
		if nextThink > 0 && sinceThink >= nextThink {
			if !s.sleep(s.pause(s.cfg.ThinkPauseMin, s.cfg.ThinkPauseMax), stop) {
				return emitted, false
			}
			sinceThink = 0
			nextThink = s.thinkInterval()
		}
	}
	return emitted, true
}

func (s *Simulator) uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.rng.Float64()*(max-min)
}

func (s *Simulator) pause(min, max float64) time.Duration {
	return time.Duration(s.uniform(min, max) * float64(time.Second))
}

func (s *Simulator) thinkInterval() int {
	min, max := s.cfg.ThinkEveryMin, s.cfg.ThinkEveryMax
	if min <= 0 || max < min {
		return 0
	}
	return min + s.rng.Intn(max-min+1)
}

// sleepFor sleeps for d unless stop fires first. Returns false on stop so
// cancellation is visible within one character's delay.
func sleepFor(d time.Duration, stop <-chan struct{}) bool {
	if d <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-stop:
		return false
	case <-t.C:
		return true
	}
}
