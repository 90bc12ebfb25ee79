package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/lmittmann/tint"

	"github.com/voxtype/voxtype/audiocapture"
	"github.com/voxtype/voxtype/config"
	"github.com/voxtype/voxtype/history"
	"github.com/voxtype/voxtype/hotkey"
	"github.com/voxtype/voxtype/internal/session"
	"github.com/voxtype/voxtype/llm"
	"github.com/voxtype/voxtype/stt"
	"github.com/voxtype/voxtype/typer"
	"github.com/voxtype/voxtype/window"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configPath    = flag.String("config", "", "config file path (default: user config dir)")
		recordHotkey  = flag.String("hotkey", "", "record-toggle hotkey")
		typeHotkey    = flag.String("type-hotkey", "", "confirm-type hotkey")
		improveHotkey = flag.String("improve-hotkey", "", "improve-text hotkey")
		model         = flag.String("model", "", "transcription model")
		language      = flag.String("language", "", "source language code (empty for auto-detect)")
		listDevices   = flag.Bool("list-devices", false, "list audio input devices and exit")
		debug         = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	applyFlags(cfg, *recordHotkey, *typeHotkey, *improveHotkey, *model, *language, *debug)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger, *listDevices); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, record, typ, improve, model, language string, debug bool) {
	if record != "" {
		cfg.Hotkey = record
	}
	if typ != "" {
		cfg.TypeHotkey = typ
	}
	if improve != "" {
		cfg.ImproveHotkey = improve
	}
	if model != "" {
		cfg.Model = model
	}
	if language != "" {
		cfg.Language = language
	}
	if debug {
		cfg.Debug = true
	}
}

func run(cfg *config.Config, logger *slog.Logger, listDevices bool) error {
	if err := audiocapture.Initialize(); err != nil {
		return fmt.Errorf("init audio: %w", err)
	}
	defer func() {
		if err := audiocapture.Terminate(); err != nil {
			logger.Warn("terminate audio", "err", err)
		}
	}()

	if listDevices {
		return printDevices()
	}

	logger.Info("starting voxtype", "version", version, "commit", commit, "date", date)

	provider, err := newTranscriber(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	deviceIndex := audiocapture.FindDevice(cfg.MicrophoneName)
	if cfg.MicrophoneName != "" && deviceIndex < 0 {
		logger.Warn("microphone not found, using default input", "name", cfg.MicrophoneName)
	}
	device := audiocapture.NewInputDevice(16000, 1, deviceIndex)
	recorder := audiocapture.NewRecorder(device, audiocapture.Config{
		SampleRate:  16000,
		Channels:    1,
		MaxDuration: time.Duration(cfg.MaxBufferSeconds) * time.Second,
	})

	emitter, err := typer.NewEmitter()
	if err != nil {
		return fmt.Errorf("init keystroke emitter: %w", err)
	}
	typerCfg := typer.DefaultConfig()
	if cfg.TypingWPM > 0 {
		typerCfg.WPM = cfg.TypingWPM
	}
	simulator := typer.New(emitter, typerCfg)

	store := openHistory(logger)
	if store != nil {
		defer store.Close()
	}

	var lastPreview string
	ctrl := session.NewController(session.Deps{
		Recorder:    recorder,
		Transcriber: provider,
		Improver:    newImprover(cfg),
		Typist:      simulator,
		Windows:     window.New(),
		History:     store,
		Logger:      logger,
	}, session.Options{
		Language:        cfg.Language,
		PromptTemplate:  cfg.PromptTemplate,
		RefocusWindow:   cfg.RefocusWindow,
		CopyToClipboard: cfg.CopyToClipboard,
		LivePreview:     cfg.LivePreview,
		OnStatus: func(status string) {
			logger.Info("status", "state", status)
			if cfg.Notify && status == "Text Ready" {
				if err := beeep.Notify("Voxtype", "Transcription ready", ""); err != nil {
					logger.Debug("notification failed", "err", err)
				}
			}
		},
		OnPreview: func(text, original string) {
			if text == "" || text == lastPreview {
				return
			}
			lastPreview = text
			if original != "" {
				logger.Info("preview", "text", text, "was", original)
			} else {
				logger.Info("preview", "text", text)
			}
		},
	})

	keys := hotkey.NewManager(
		hotkey.Bindings{
			Record:  cfg.Hotkey,
			Type:    cfg.TypeHotkey,
			Improve: cfg.ImproveHotkey,
		},
		func() { ctrl.Dispatch(session.TriggerRecord) },
		func() { ctrl.Dispatch(session.TriggerType) },
		func() { ctrl.Dispatch(session.TriggerImprove) },
	)
	if err := keys.Start(); err != nil {
		return fmt.Errorf("register hotkeys: %w", err)
	}
	defer keys.Stop()

	logger.Info("ready",
		"record", cfg.Hotkey,
		"type", cfg.TypeHotkey,
		"improve", cfg.ImproveHotkey,
		"provider", provider.Name(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl.Run(ctx)
	logger.Info("shutting down")
	return nil
}

func printDevices() error {
	devices, err := audiocapture.ListDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	for _, d := range devices {
		fmt.Printf("%3d  %s\n", d.Index, d.Name)
	}
	return nil
}

func newTranscriber(cfg *config.Config) (stt.Provider, error) {
	switch cfg.STTProvider {
	case "", "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" && cfg.APIBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return stt.NewOpenAI(stt.OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: cfg.APIBaseURL,
			Model:   cfg.Model,
		}), nil
	case "ollama":
		return stt.NewOllama(cfg.OllamaHost, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown stt provider %q", cfg.STTProvider)
	}
}

func newImprover(cfg *config.Config) session.Improver {
	kind := cfg.Improver.Kind
	if kind == "" {
		return nil
	}
	completer := llm.NewCompleter(kind, improverAPIKey(kind), cfg.Improver.BaseURL, cfg.Improver.Model, llm.Options{})
	return llm.NewImprover(completer)
}

func improverAPIKey(kind string) string {
	switch kind {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "ollama":
		return ""
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// openHistory is best effort: dictation works without the transcript log.
func openHistory(logger *slog.Logger) *history.Store {
	dir, err := os.UserConfigDir()
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}
	store, err := history.Open(filepath.Join(dir, "voxtype", "history"))
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}
	return store
}
