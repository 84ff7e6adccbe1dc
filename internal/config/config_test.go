package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Server.Port != 8070 {
		t.Errorf("Server.Port = %d, want 8070", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}

	// Sink credentials default to empty; the service renders its initial
	// page without them.
	if cfg.Sink.URL != "" {
		t.Errorf("Sink.URL = %q, want empty", cfg.Sink.URL)
	}

	if cfg.Sink.Token != "" {
		t.Errorf("Sink.Token = %q, want empty", cfg.Sink.Token)
	}

	if cfg.Sink.ProbeTimeout != 5*time.Second {
		t.Errorf("Sink.ProbeTimeout = %v, want 5s", cfg.Sink.ProbeTimeout)
	}

	if cfg.Sink.SendTimeout != 10*time.Second {
		t.Errorf("Sink.SendTimeout = %v, want 10s", cfg.Sink.SendTimeout)
	}

	if cfg.Proxy.UpstreamURL != "https://httpbin.org/get" {
		t.Errorf("Proxy.UpstreamURL = %q, want httpbin", cfg.Proxy.UpstreamURL)
	}

	if cfg.Proxy.TLSSkipVerify {
		t.Error("Proxy.TLSSkipVerify should be false by default")
	}

	if cfg.Tracing.ServiceName != "eventgen" {
		t.Errorf("Tracing.ServiceName = %q, want eventgen", cfg.Tracing.ServiceName)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  port: 9090
sink:
  url: https://tenant.example.com
  token: tok-from-file
logging:
  level: debug
  format: text
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}

	if cfg.Sink.URL != "https://tenant.example.com" {
		t.Errorf("Sink.URL = %q", cfg.Sink.URL)
	}

	if cfg.Sink.Token != "tok-from-file" {
		t.Errorf("Sink.Token = %q", cfg.Sink.Token)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	// Untouched sections keep their defaults.
	if cfg.Sink.SendTimeout != 10*time.Second {
		t.Errorf("Sink.SendTimeout = %v, want 10s", cfg.Sink.SendTimeout)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load("/does/not/exist/config.yaml"); err == nil {
		t.Error("expected error for explicitly named missing config file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EVENTGEN_SINK_URL", "https://env.example.com")
	t.Setenv("EVENTGEN_SINK_TOKEN", "tok-from-env")
	t.Setenv("EVENTGEN_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sink.URL != "https://env.example.com" {
		t.Errorf("Sink.URL = %q, want env value", cfg.Sink.URL)
	}

	if cfg.Sink.Token != "tok-from-env" {
		t.Errorf("Sink.Token = %q, want env value", cfg.Sink.Token)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoad_BackendEnvFallback(t *testing.T) {
	t.Setenv("DT_API_URL", "https://tenant.live.example.com")
	t.Setenv("DT_API_TOKEN", "dt0c01.abc123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sink.URL != "https://tenant.live.example.com" {
		t.Errorf("Sink.URL = %q, want DT_API_URL value", cfg.Sink.URL)
	}

	if cfg.Sink.Token != "dt0c01.abc123" {
		t.Errorf("Sink.Token = %q, want DT_API_TOKEN value", cfg.Sink.Token)
	}
}
