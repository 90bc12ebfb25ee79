// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "voxtype"
	configFileName = "config.json"
)

// ImproverConfig selects the text-improvement backend.
type ImproverConfig struct {
	// Kind is one of "openai", "openai-compatible", "gemini", "claude",
	// "ollama".
	Kind    string `json:"kind"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
}

// Config represents the application configuration. API keys are read from
// the environment (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY) and
// never written to the config file.
type Config struct {
	// Global hotkeys (gohook key names).
	Hotkey        string `json:"hotkey"`
	TypeHotkey    string `json:"type_hotkey"`
	ImproveHotkey string `json:"improve_hotkey"`

	// Transcription.
	STTProvider string `json:"stt_provider"` // "openai" or "ollama"
	Model       string `json:"model"`
	Language    string `json:"language,omitempty"` // empty = auto-detect
	APIBaseURL  string `json:"api_base_url,omitempty"`
	OllamaHost  string `json:"ollama_host,omitempty"`

	// Improvement.
	Improver       ImproverConfig `json:"improver"`
	PromptTemplate string         `json:"prompt_template,omitempty"`

	// Capture.
	MicrophoneName   string `json:"microphone_name,omitempty"`
	MaxBufferSeconds int    `json:"max_buffer_seconds"` // 0 = unbounded
	LivePreview      bool   `json:"live_preview"`

	// Typing.
	TypingWPM     int  `json:"typing_wpm"`
	RefocusWindow bool `json:"refocus_window"`

	// Integrations.
	CopyToClipboard bool `json:"copy_to_clipboard"`
	Notify          bool `json:"notify"`

	Debug bool `json:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Hotkey:        "f8",
		TypeHotkey:    "f9",
		ImproveHotkey: "f10",
		STTProvider:   "openai",
		Model:         "whisper-1",
		Improver: ImproverConfig{
			Kind:  "gemini",
			Model: "gemini-1.5-flash",
		},
		LivePreview:   true,
		TypingWPM:     40,
		RefocusWindow: true,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load reads configuration from path ("" selects the default location).
// Missing files yield the default configuration; fields absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save persists the configuration to path ("" selects the default location).
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
