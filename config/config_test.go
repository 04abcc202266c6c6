package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `crm:
  base_url: "https://crm.example.com"
  timeout_seconds: 5
api:
  addr: ":8088"
  token: "secret"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "fieldops"
  topic_prefix: "fieldops/assignments"
metrics:
  sinks:
    - type: "nop"
logging:
  backend: "sqlite"
  path: "audit.db"
policy:
  max_work_hours: 10
  workload_penalty: 20
  default_start: "07:30"
  default_end: "16:30"
board_url: "https://board.example.com"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"crm.base_url", cfg.CRM.BaseURL, "https://crm.example.com"},
		{"crm.timeout_seconds", cfg.CRM.TimeoutSeconds, 5},
		{"api.addr", cfg.API.Addr, ":8088"},
		{"api.token", cfg.API.Token, "secret"},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "fieldops/assignments"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"logging.backend", cfg.Logging.Backend, "sqlite"},
		{"logging.path", cfg.Logging.Path, "audit.db"},
		{"board_url", cfg.BoardURL, "https://board.example.com"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	pol, err := cfg.Policy.ToPolicy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if pol.MaxWorkHours != 10 || pol.WorkloadPenalty != 20 {
		t.Errorf("policy constants not applied: %+v", pol)
	}
	if pol.DefaultStart.String() != "07:30" || pol.DefaultEnd.String() != "16:30" {
		t.Errorf("policy window not applied: %+v", pol)
	}
	if pol.BaseScore != 100 {
		t.Errorf("base score default not applied: %d", pol.BaseScore)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"crm": {"base_url": "https://crm.example.com"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_API__TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Token != "env-token" {
		t.Errorf("env override not applied: %q", cfg.API.Token)
	}
	if cfg.API.Addr != ":8080" {
		t.Errorf("api addr default not applied: %q", cfg.API.Addr)
	}
	if cfg.Logging.Backend != "jsonl" {
		t.Errorf("logging default not applied: %q", cfg.Logging.Backend)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
