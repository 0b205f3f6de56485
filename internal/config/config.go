package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jgoulah/heatsplit/internal/engine"
)

// Config holds the application configuration
type Config struct {
	UnitRate         float64             `yaml:"unit_rate,omitempty"`           // Cost per kWh
	MinBaselineKWh   float64             `yaml:"min_baseline_kwh,omitempty"`    // Baseline clamp floor (fallback: 0)
	MaxBaselineKWh   float64             `yaml:"max_baseline_kwh,omitempty"`    // Baseline clamp ceiling (fallback: 100)
	MaxRangeSpanDays int                 `yaml:"max_range_span_days,omitempty"` // Largest allowed split range (fallback: 365)
	OccupantAName    string              `yaml:"occupant_a_name,omitempty"`
	OccupantBName    string              `yaml:"occupant_b_name,omitempty"`
	Model            *engine.LinearModel `yaml:"model,omitempty"` // Fitted baseline model, written by `heatsplit fit --save`
	ReferenceWindow  Window              `yaml:"reference_window,omitempty"`
	DefaultOccupancy *OccupancyConfig    `yaml:"default_occupancy,omitempty"`
	Occupancy        []engine.Occupancy  `yaml:"occupancy,omitempty"` // Ordered, first match wins
	HomeAssistant    HAConfig            `yaml:"home_assistant,omitempty"`
	MQTT             MQTTConfig          `yaml:"mqtt,omitempty"`
}

// Window is an inclusive date range, used for the model's reference fit window
type Window struct {
	Start string `yaml:"start,omitempty"` // YYYY-MM-DD
	End   string `yaml:"end,omitempty"`   // YYYY-MM-DD
}

// OccupancyConfig holds the default presence and thermostat-controller
// assignment applied to days no occupancy interval covers
type OccupancyConfig struct {
	APresent   bool              `yaml:"a_present"`
	BPresent   bool              `yaml:"b_present"`
	Controller engine.Controller `yaml:"controller"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.heatsplit_period_cost"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // Fallback: heatsplit
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetUnitRate returns the configured cost per kWh, or 0 if not set
func (c *Config) GetUnitRate() float64 {
	return c.UnitRate
}

// GetBounds returns the baseline clamp bounds with a default of [0, 100] kWh
func (c *Config) GetBounds() engine.Bounds {
	b := engine.Bounds{MinKWh: c.MinBaselineKWh, MaxKWh: c.MaxBaselineKWh}
	if b.MaxKWh <= 0 {
		b.MaxKWh = 100
	}
	return b
}

// GetMaxRangeSpanDays returns the largest allowed split range with a default
// of 365 days
func (c *Config) GetMaxRangeSpanDays() int {
	if c.MaxRangeSpanDays <= 0 {
		return 365
	}
	return c.MaxRangeSpanDays
}

// GetDefaultOccupancy returns the configured default assignment, falling back
// to both occupants present with A controlling the thermostat
func (c *Config) GetDefaultOccupancy() engine.Occupancy {
	if c.DefaultOccupancy == nil {
		return engine.Occupancy{APresent: true, BPresent: true, Controller: engine.ControllerA}
	}
	occ := engine.Occupancy{
		APresent:   c.DefaultOccupancy.APresent,
		BPresent:   c.DefaultOccupancy.BPresent,
		Controller: c.DefaultOccupancy.Controller,
	}
	if occ.Controller == "" {
		occ.Controller = engine.ControllerA
	}
	return occ
}

// GetOccupantAName returns occupant A's display name
func (c *Config) GetOccupantAName() string {
	if c.OccupantAName == "" {
		return "A"
	}
	return c.OccupantAName
}

// GetOccupantBName returns occupant B's display name
func (c *Config) GetOccupantBName() string {
	if c.OccupantBName == "" {
		return "B"
	}
	return c.OccupantBName
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "heatsplit"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "heatsplit"
	}
	return c.MQTT.TopicPrefix
}
