package config

import (
	"github.com/kilianp07/fieldops/infra/mqtt"
)

// MQTTConfig wraps the broker settings with an enable switch: the announcer
// only runs when a broker is configured.
type MQTTConfig struct {
	Enabled     bool        `json:"enabled"`
	mqtt.Config `json:",squash"`
}
