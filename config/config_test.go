package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotkey != "f8" || cfg.TypeHotkey != "f9" || cfg.ImproveHotkey != "f10" {
		t.Errorf("default hotkeys = %q/%q/%q", cfg.Hotkey, cfg.TypeHotkey, cfg.ImproveHotkey)
	}
	if cfg.TypingWPM != 40 {
		t.Errorf("default typing_wpm = %d, want 40", cfg.TypingWPM)
	}
	if !cfg.RefocusWindow {
		t.Error("refocus_window should default to true")
	}
	if !cfg.LivePreview {
		t.Error("live_preview should default to true")
	}
	if cfg.MaxBufferSeconds != 0 {
		t.Errorf("max_buffer_seconds = %d, want 0 (unbounded)", cfg.MaxBufferSeconds)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"hotkey": "f6", "typing_wpm": 80}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hotkey != "f6" {
		t.Errorf("hotkey = %q, want f6", cfg.Hotkey)
	}
	if cfg.TypingWPM != 80 {
		t.Errorf("typing_wpm = %d, want 80", cfg.TypingWPM)
	}
	// Untouched fields keep their defaults.
	if cfg.TypeHotkey != "f9" {
		t.Errorf("type_hotkey = %q, want default f9", cfg.TypeHotkey)
	}
	if cfg.Model != "whisper-1" {
		t.Errorf("model = %q, want default whisper-1", cfg.Model)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Hotkey = "f7"
	cfg.Language = "en"
	cfg.MicrophoneName = "USB Microphone"
	cfg.CopyToClipboard = true
	cfg.Improver = ImproverConfig{Kind: "claude", Model: "claude-sonnet-4-5"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Hotkey != "f7" {
		t.Errorf("hotkey = %q, want f7", loaded.Hotkey)
	}
	if loaded.Language != "en" {
		t.Errorf("language = %q, want en", loaded.Language)
	}
	if loaded.MicrophoneName != "USB Microphone" {
		t.Errorf("microphone_name = %q", loaded.MicrophoneName)
	}
	if !loaded.CopyToClipboard {
		t.Error("copy_to_clipboard lost in round trip")
	}
	if loaded.Improver.Kind != "claude" || loaded.Improver.Model != "claude-sonnet-4-5" {
		t.Errorf("improver = %+v", loaded.Improver)
	}
}

func TestSave_NoSecretsInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := Default().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lower := strings.ToLower(string(data))
	for _, needle := range []string{"api_key", "apikey", "token"} {
		if strings.Contains(lower, needle) {
			t.Errorf("saved config contains secret-like field %q", needle)
		}
	}
}
