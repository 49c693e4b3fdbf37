// Package config loads the app's configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the app reads from the environment.
type Config struct {
	// APIKey authenticates against the generative service. Read from
	// RETOUCH_GEMINI_API_KEY, falling back to GEMINI_API_KEY.
	APIKey string

	// EditModel generates edited images.
	EditModel string

	// LiveModel drives the live voice conversation.
	LiveModel string

	// LiveEndpoint overrides the live websocket endpoint (tests, proxies).
	// Empty means the service default.
	LiveEndpoint string

	// DefaultBrushRadius is the initial brush radius in display pixels.
	DefaultBrushRadius float64

	// AudioDumpPath, when set, receives a WAV of all model audio from the
	// last conversation. Debug facility.
	AudioDumpPath string
}

// LoadFromEnv reads the configuration, applying defaults for everything but
// the API key.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		APIKey:             envOr("RETOUCH_GEMINI_API_KEY", envOr("GEMINI_API_KEY", "")),
		EditModel:          envOr("RETOUCH_EDIT_MODEL", "gemini-2.5-flash-image"),
		LiveModel:          envOr("RETOUCH_LIVE_MODEL", "models/gemini-2.0-flash-live-001"),
		LiveEndpoint:       envOr("RETOUCH_LIVE_ENDPOINT", ""),
		DefaultBrushRadius: envFloat64Or("RETOUCH_BRUSH_RADIUS", 20),
		AudioDumpPath:      envOr("RETOUCH_AUDIO_DUMP_PATH", ""),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the app cannot run with.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("RETOUCH_GEMINI_API_KEY (or GEMINI_API_KEY) must be set")
	}
	if c.EditModel == "" {
		return fmt.Errorf("RETOUCH_EDIT_MODEL must not be empty")
	}
	if c.LiveModel == "" {
		return fmt.Errorf("RETOUCH_LIVE_MODEL must not be empty")
	}
	if c.DefaultBrushRadius <= 0 {
		return fmt.Errorf("RETOUCH_BRUSH_RADIUS must be positive, got %v", c.DefaultBrushRadius)
	}
	return nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envFloat64Or(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return n
}
