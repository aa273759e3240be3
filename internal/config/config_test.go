package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q; want 8080", cfg.Port)
	}
	if cfg.DBPath != "portal.db" {
		t.Errorf("DBPath = %q; want portal.db", cfg.DBPath)
	}
	if cfg.AssistantLimit != 10 {
		t.Errorf("AssistantLimit = %d; want 10", cfg.AssistantLimit)
	}
	if cfg.ChannelBufSize != 32 {
		t.Errorf("ChannelBufSize = %d; want 32", cfg.ChannelBufSize)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d; want %d", cfg.MaxUploadBytes, 10<<20)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q; want /api/v1", cfg.APIBasePath)
	}
}

func TestLoad_EnvOverridesAndValidation(t *testing.T) {
	t.Setenv("ASSISTANT_LIMIT", "5")
	t.Setenv("CHANNEL_BUF_SIZE", "4")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AssistantLimit != 5 || cfg.ChannelBufSize != 4 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q; want warn", cfg.LogLevel)
	}

	t.Setenv("ASSISTANT_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for ASSISTANT_LIMIT=0")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestGetDur(t *testing.T) {
	t.Setenv("SOME_DUR", "250ms")
	if got := getdur("SOME_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("getdur = %v", got)
	}
	if got := getdur("MISSING_DUR", time.Second); got != time.Second {
		t.Fatalf("default = %v", got)
	}
}
