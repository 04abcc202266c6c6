package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fieldops/core/metrics"
	"github.com/kilianp07/fieldops/infra/crm"
)

type Config struct {
	CRM     crm.Config     `json:"crm"`
	API     APIConfig      `json:"api"`
	MQTT    MQTTConfig     `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
	Logging LoggingConfig  `json:"logging"`
	Policy  PolicyConfig   `json:"policy"`
	Sentry  SentryConfig   `json:"sentry"`
	// BoardURL points operators at the manual dispatch board when both
	// persistence tiers fail. Shown verbatim in failure reports.
	BoardURL string `json:"board_url"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.CRM.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.CRM.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Policy.ToPolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// APIConfig defines the HTTP API listener.
type APIConfig struct {
	// Addr is the listen address of the assignment API.
	Addr string `json:"addr"`
	// Token guards the endpoints when non-empty ("Bearer <token>").
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
