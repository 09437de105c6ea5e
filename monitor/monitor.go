// Package monitor reports task health to a cronitor-style telemetry
// endpoint. Pings are fire-and-forget; a monitoring outage must never affect
// the bot.
package monitor

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

// State is the lifecycle phase a ping reports.
type State string

const (
	StateRun      State = "run"
	StateComplete State = "complete"
	StateFailed   State = "failed"
)

const defaultTelemetryURL = "https://cronitor.link"

// Monitor reports the health of one scheduled task.
type Monitor struct {
	apiKey  string
	key     string
	env     string
	client  *http.Client
	baseURL string
}

// New creates a monitor for the named task. An empty API key disables all
// pings, which keeps local development quiet.
func New(apiKey, key, env string) *Monitor {
	return &Monitor{
		apiKey:  apiKey,
		key:     key,
		env:     env,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultTelemetryURL,
	}
}

// Ping reports a state transition for the task. Failures are logged and
// swallowed.
func (m *Monitor) Ping(state State) {
	if m.apiKey == "" {
		return
	}

	params := url.Values{}
	params.Set("state", string(state))
	params.Set("env", m.env)

	endpoint := fmt.Sprintf("%s/p/%s/%s?%s", m.baseURL, m.apiKey, m.key, params.Encode())
	resp, err := m.client.Get(endpoint)
	if err != nil {
		log.Printf("Monitor ping for %s failed: %v", m.key, err)
		return
	}
	resp.Body.Close()
}

// Pause suppresses alerting for the task for the given number of hours,
// used on shutdown so a stopped bot does not page anyone.
func (m *Monitor) Pause(hours int) {
	if m.apiKey == "" {
		return
	}

	endpoint := fmt.Sprintf("%s/p/%s/%s/pause/%d", m.baseURL, m.apiKey, m.key, hours)
	resp, err := m.client.Get(endpoint)
	if err != nil {
		log.Printf("Monitor pause for %s failed: %v", m.key, err)
		return
	}
	resp.Body.Close()
}
