// Package config handles configuration for the status relay, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the status relay.
//
// Fields:
//   - NatsURL / NatsSubject: the event bus carrying upload pipeline events.
//   - SerialPort / SerialBaudRate: the display link.
//   - SerialResetDelay: wait after opening the port, because opening it
//     resets the attached Arduino.
//   - SinkWriteTimeout: how long the coordinator waits for the display
//     writer before dropping a line.
//   - ExplorerBaseURL / RootsLimit: the PDP explorer instance and the page
//     size of its roots listing.
//   - PollInterval: time between proof-health reconciliation ticks.
//   - MinRecheckInterval: minimum age of a record's last transition before
//     it is polled again.
//   - QueryTimeout: per-query bound on one explorer request.
type Config struct {
	NatsURL            string
	NatsSubject        string
	SerialPort         string
	SerialBaudRate     int
	SerialResetDelay   time.Duration
	SinkWriteTimeout   time.Duration
	ExplorerBaseURL    string
	RootsLimit         int
	PollInterval       time.Duration
	MinRecheckInterval time.Duration
	QueryTimeout       time.Duration
}

// LoadDefaults populates Config with the defaults of the original deployment
// (calibration explorer, Arduino on /dev/ttyACM1 at 9600 baud).
func (c *Config) LoadDefaults() {
	c.NatsURL = "nats://127.0.0.1:4222"
	c.NatsSubject = "pdp.status"
	c.SerialPort = "/dev/ttyACM1"
	c.SerialBaudRate = 9600
	c.SerialResetDelay = 2 * time.Second
	c.SinkWriteTimeout = 250 * time.Millisecond
	c.ExplorerBaseURL = "https://calibration.pdp-explorer.eng.filoz.org"
	c.RootsLimit = 100
	c.PollInterval = 5 * time.Second
	c.MinRecheckInterval = 5 * time.Second
	c.QueryTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
