package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/heatsplit/internal/config"
	"github.com/jgoulah/heatsplit/internal/engine"
)

// Publisher handles publishing computed period results to MQTT and Home Assistant
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, topicPrefix string, haCfg config.HAConfig) (*Publisher, error) {
	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	// If MQTT is enabled, set it up
	var client mqtt.Client

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("heatsplit")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
	}, nil
}

// PeriodPayload is the MQTT message body for one computed period
type PeriodPayload struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	DayCount     int     `json:"day_count"`
	ActualKWh    float64 `json:"actual_kwh"`
	ActualCost   float64 `json:"actual_cost"`
	BaselineCost float64 `json:"baseline_cost"`
	ExcessCost   float64 `json:"excess_cost"`
	ShareA       float64 `json:"share_a"`
	ShareB       float64 `json:"share_b"`
	AvgTemp      float64 `json:"avg_temp"`
}

// HAPayload matches the Home Assistant backfill service call data
type HAPayload struct {
	EntityID    string `json:"entity_id"`
	State       string `json:"state"`
	LastChanged string `json:"last_changed"`
	LastUpdated string `json:"last_updated"`
}

// PublishTotals sends the computed totals for one period. When MQTT is
// configured the full breakdown goes to <prefix>/period; when Home Assistant
// is configured the period's actual cost is backfilled as the entity state
// at the period's end date.
func (p *Publisher) PublishTotals(start, end time.Time, totals engine.PeriodTotals) error {
	if p.client == nil && !p.haConfig.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant publishing is enabled in config")
	}

	if p.client != nil {
		payload := PeriodPayload{
			Start:        start.Format("2006-01-02"),
			End:          end.Format("2006-01-02"),
			DayCount:     totals.DayCount,
			ActualKWh:    totals.ActualKWh,
			ActualCost:   totals.ActualCost,
			BaselineCost: totals.BaselineCost,
			ExcessCost:   totals.ExcessCost,
			ShareA:       totals.ShareA,
			ShareB:       totals.ShareB,
			AvgTemp:      totals.AvgTemp,
		}

		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		topic := fmt.Sprintf("%s/period", p.topicPrefix)
		if token := p.client.Publish(topic, 0, true, body); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publishing to %s: %w", topic, token.Error())
		}
	}

	if p.haConfig.Enabled {
		if err := p.publishHA(end, totals.ActualCost); err != nil {
			return err
		}
	}

	return nil
}

// publishHA backfills one state value via the Home Assistant HTTP API
func (p *Publisher) publishHA(date time.Time, cost float64) error {
	apiURL := fmt.Sprintf("%s/api/appdaemon/backfill_state", p.haConfig.URL)

	timestamp := date.Format(time.RFC3339)
	payload := HAPayload{
		EntityID:    p.haConfig.EntityID,
		State:       fmt.Sprintf("%.2f", cost),
		LastChanged: timestamp,
		LastUpdated: timestamp,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
