// Retouch Studio: a desktop image-editing app with a live voice assistant.
// Paint a mask over the part of the photo to change, describe the edit, and
// the generative model does the rest.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/retouch-ai/retouch/internal/config"
	"github.com/retouch-ai/retouch/internal/dotenv"
	"github.com/retouch-ai/retouch/internal/ui"
	"github.com/retouch-ai/retouch/pkg/audio"
	"github.com/retouch-ai/retouch/pkg/edit"
	"github.com/retouch-ai/retouch/pkg/live"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := dotenv.Load(); err != nil {
		logger.Error("load .env failed", "error", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	editor, err := edit.NewService(context.Background(), cfg.APIKey, cfg.EditModel, logger)
	if err != nil {
		logger.Error("create edit service failed", "error", err)
		os.Exit(1)
	}

	speaker, err := audio.NewSpeaker(audio.PlaybackSampleRate)
	if err != nil {
		logger.Error("open audio output failed", "error", err)
		os.Exit(1)
	}
	defer speaker.Close()

	scheduler := audio.NewScheduler(speaker, audio.PlaybackSampleRate, logger)
	if cfg.AudioDumpPath != "" {
		scheduler.KeepPCM()
	}
	defer scheduler.Close()

	capture := audio.NewCapture(logger)
	defer capture.Stop()

	dial := func(ctx context.Context) (live.Transport, error) {
		return live.Dial(ctx, live.DialOptions{
			Endpoint: cfg.LiveEndpoint,
			APIKey:   cfg.APIKey,
			Model:    cfg.LiveModel,
		})
	}
	newConversation := func(cb live.Callbacks) *live.Conversation {
		return live.NewConversation(dial, capture, scheduler, cb, logger)
	}

	ui.RunApp(cfg, editor, newConversation, logger)

	if cfg.AudioDumpPath != "" {
		if wav := scheduler.DumpWAV(); wav != nil {
			if err := os.WriteFile(cfg.AudioDumpPath, wav, 0o644); err != nil {
				logger.Warn("write audio dump failed", "path", cfg.AudioDumpPath, "error", err)
			}
		}
	}
}
