package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI transcribes audio through the OpenAI speech-to-text endpoint.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional, for OpenAI-compatible servers
	Model   string // optional, defaults to "whisper-1"
	Timeout time.Duration
}

// NewOpenAI creates an OpenAI transcription provider.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}
}

func (p *OpenAI) Name() string { return "openai" }

// Transcribe uploads the samples as a WAV file and returns the transcript.
func (p *OpenAI) Transcribe(samples []float32, language string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	wavData, err := encodeWAV(samples, sampleRate)
	if err != nil {
		return "", fmt.Errorf("convert to wav: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(p.model),
		File:  openai.File(bytes.NewReader(wavData), "audio.wav", "audio/wav"),
	}
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	resp, err := p.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *OpenAI) Close() error { return nil }
