package config

import "testing"

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("RETOUCH_GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.APIKey != "test-key" {
		t.Fatalf("APIKey=%q", cfg.APIKey)
	}
	if cfg.DefaultBrushRadius != 20 {
		t.Fatalf("DefaultBrushRadius=%v", cfg.DefaultBrushRadius)
	}
	if cfg.EditModel == "" || cfg.LiveModel == "" {
		t.Fatal("model defaults missing")
	}
}

func TestLoadFromEnv_APIKeyFallback(t *testing.T) {
	t.Setenv("RETOUCH_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "fallback-key")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.APIKey != "fallback-key" {
		t.Fatalf("APIKey=%q, want fallback", cfg.APIKey)
	}
}

func TestLoadFromEnv_MissingKeyFails(t *testing.T) {
	t.Setenv("RETOUCH_GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error without an api key")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("RETOUCH_GEMINI_API_KEY", "k")
	t.Setenv("RETOUCH_BRUSH_RADIUS", "35.5")
	t.Setenv("RETOUCH_LIVE_ENDPOINT", "ws://localhost:9999/live")
	t.Setenv("RETOUCH_EDIT_MODEL", "custom-edit-model")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.DefaultBrushRadius != 35.5 {
		t.Fatalf("DefaultBrushRadius=%v", cfg.DefaultBrushRadius)
	}
	if cfg.LiveEndpoint != "ws://localhost:9999/live" {
		t.Fatalf("LiveEndpoint=%q", cfg.LiveEndpoint)
	}
	if cfg.EditModel != "custom-edit-model" {
		t.Fatalf("EditModel=%q", cfg.EditModel)
	}
}

func TestValidate_RejectsNonPositiveBrush(t *testing.T) {
	cfg := Config{
		APIKey:    "k",
		EditModel: "m",
		LiveModel: "m",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero brush radius")
	}
}
