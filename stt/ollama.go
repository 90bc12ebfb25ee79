package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaHost = "http://localhost:11434"

// Ollama transcribes audio through an Ollama server's generate endpoint,
// attaching the recording as a WAV file.
type Ollama struct {
	host  string
	model string
	http  *http.Client
}

// NewOllama creates an Ollama transcription provider.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = defaultOllamaHost
	}
	if model == "" {
		model = "whisper:latest"
	}
	return &Ollama{
		host:  strings.TrimRight(host, "/"),
		model: model,
		http:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *Ollama) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Transcribe sends the samples to the Ollama server and returns the
// transcript.
func (p *Ollama) Transcribe(samples []float32, language string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	wavData, err := encodeWAV(samples, sampleRate)
	if err != nil {
		return "", fmt.Errorf("convert to wav: %w", err)
	}

	prompt := "Transcribe the following audio:"
	if language != "" && language != "auto" {
		prompt = fmt.Sprintf("Transcribe the following audio (language: %s):", language)
	}

	reqBody := ollamaGenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(wavData)},
		Stream: false,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.http.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error: %d - %s", resp.StatusCode, string(body))
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if genResp.Error != "" {
		return "", fmt.Errorf("api error: %s", genResp.Error)
	}
	return strings.TrimSpace(genResp.Response), nil
}

func (p *Ollama) Close() error { return nil }
