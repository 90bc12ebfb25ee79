// Package stt provides speech-to-text provider interface and implementations.
package stt

// Provider defines the interface for speech-to-text providers.
// Implementations may block for seconds and may fail; the caller treats
// errors as non-fatal.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts audio samples to text.
	// samples: PCM float32 at 16000 Hz, mono
	// language: source language code (empty or "auto" for auto-detect)
	Transcribe(samples []float32, language string) (string, error)

	// Close releases resources held by the provider.
	Close() error
}
