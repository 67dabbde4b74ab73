package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_TablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{"dev", "", "dev_"},
		{"test", "", "test_"},
		{"prod", "", "prod_"},
		{"prod", "staging_", "staging_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+tt.override, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			t.Setenv("TABLE_PREFIX", tt.override)

			if got := Load().TablePrefix; got != tt.want {
				t.Errorf("TablePrefix = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "")

	cfg := Load()

	if cfg.SupabaseJWKSURL != "https://example.supabase.co/auth/v1/.well-known/jwks.json" {
		t.Errorf("JWKS URL = %q", cfg.SupabaseJWKSURL)
	}
	if cfg.RateLimitPerSecond != 10 || cfg.RateLimitBurst != 30 {
		t.Errorf("rate limit = %v/%d, want defaults", cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}
}

func TestLoadWorkspaceConfig_Defaults(t *testing.T) {
	cfg, err := LoadWorkspaceConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Drag.ActivationDistance != 8 {
		t.Errorf("activation distance = %v, want 8", cfg.Drag.ActivationDistance)
	}
	if cfg.Drag.HoverExpandDelay != 500*time.Millisecond {
		t.Errorf("hover delay = %v, want 500ms", cfg.Drag.HoverExpandDelay)
	}
	if cfg.Remote.RequestTimeout != 15*time.Second {
		t.Errorf("request timeout = %v, want 15s", cfg.Remote.RequestTimeout)
	}
}

func TestLoadWorkspaceConfig_Override(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantDelay time.Duration
		wantDist  float64
		wantErr   bool
	}{
		{"partial override keeps defaults", "drag:\n  hover_expand_delay: 750ms\n", 750 * time.Millisecond, 8, false},
		{"both drag keys", "drag:\n  activation_distance: 4\n  hover_expand_delay: 1s\n", time.Second, 4, false},
		{"negative distance", "drag:\n  activation_distance: -1\n", 0, 0, true},
		{"zero delay", "drag:\n  hover_expand_delay: 0s\n", 0, 0, true},
		{"malformed", "drag: [\n", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workspace.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadWorkspaceConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Drag.HoverExpandDelay != tt.wantDelay || cfg.Drag.ActivationDistance != tt.wantDist {
				t.Errorf("drag = %+v", cfg.Drag)
			}
			if cfg.Remote.RequestTimeout != 15*time.Second {
				t.Errorf("remote timeout should keep its default, got %v", cfg.Remote.RequestTimeout)
			}
		})
	}
}

func TestLoadWorkspaceConfig_MissingFile(t *testing.T) {
	if _, err := LoadWorkspaceConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"cognicard-2026-01-01T00-00-00.log",
		"cognicard-2026-01-02T00-00-00.log",
		"cognicard-2026-01-03T00-00-00.log",
		"notes.txt",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := cleanupOldLogs(dir, 2); err != nil {
		t.Fatal(err)
	}

	entries, _ := os.ReadDir(dir)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	want := []string{"cognicard-2026-01-02T00-00-00.log", "cognicard-2026-01-03T00-00-00.log", "notes.txt"}
	if len(left) != len(want) {
		t.Fatalf("left = %v, want %v", left, want)
	}
	for i := range want {
		if left[i] != want[i] {
			t.Errorf("left = %v, want %v", left, want)
			break
		}
	}
}
