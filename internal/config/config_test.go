package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ITEMS_MODE", "")
	t.Setenv("UPSTREAM_URL", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ItemsMode != ItemsModeLocal {
		t.Errorf("ItemsMode = %q, want local", cfg.ItemsMode)
	}
	if cfg.PortInt() != 8080 {
		t.Errorf("PortInt = %d", cfg.PortInt())
	}
}

func TestLoadRemoteModeNeedsUpstream(t *testing.T) {
	t.Setenv("ITEMS_MODE", "remote")
	t.Setenv("UPSTREAM_URL", "")

	cfg := Load()
	if cfg.ItemsMode != ItemsModeLocal {
		t.Errorf("remote mode without upstream should fall back to local, got %q", cfg.ItemsMode)
	}

	t.Setenv("UPSTREAM_URL", "https://api.example.it")
	cfg = Load()
	if cfg.ItemsMode != ItemsModeRemote {
		t.Errorf("ItemsMode = %q, want remote", cfg.ItemsMode)
	}
	if cfg.UpstreamURL != "https://api.example.it" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
}

func TestLoadUnknownModeFallsBack(t *testing.T) {
	t.Setenv("ITEMS_MODE", "ibrido")

	cfg := Load()
	if cfg.ItemsMode != ItemsModeLocal {
		t.Errorf("unknown mode should fall back to local, got %q", cfg.ItemsMode)
	}
}

func TestPortInt(t *testing.T) {
	c := &Config{Port: "abc"}
	if c.PortInt() != 8080 {
		t.Errorf("garbage port should default to 8080, got %d", c.PortInt())
	}
	c.Port = "3000"
	if c.PortInt() != 3000 {
		t.Errorf("PortInt = %d, want 3000", c.PortInt())
	}
}
