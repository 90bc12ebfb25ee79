package session

import (
	"strings"
	"time"
)

// liveLoop publishes preview transcriptions while recording. It wakes on a
// fixed interval, skips ticks that land inside the throttle window or before
// the buffer holds enough audio to be worth transcribing, and republishes
// only when the provider's answer changes. Provider errors are logged once
// per failure onset and never stop the loop.
func (c *Controller) liveLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.opts.LiveInterval)
	defer ticker.Stop()

	var (
		last       string
		lastCall   time.Time
		errLatched bool
	)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if time.Since(lastCall) < c.opts.LiveThrottle {
			continue
		}
		samples := c.deps.Recorder.Snapshot()
		if len(samples) < c.opts.LiveMinSamples {
			continue
		}

		// Re-arm the throttle whether or not the call succeeds; a failing
		// provider should not be hammered every tick.
		lastCall = time.Now()
		text, err := c.deps.Transcriber.Transcribe(samples, c.opts.Language)
		if err != nil {
			if !errLatched {
				c.logger.Warn("live transcription failed", "err", err)
				errLatched = true
			}
			continue
		}
		errLatched = false

		text = strings.TrimSpace(text)
		if text == "" || text == last {
			continue
		}
		last = text
		c.publishPreview(text, "")
	}
}
