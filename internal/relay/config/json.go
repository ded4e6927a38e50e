package config

import (
	"encoding/json"
	"os"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/flagx"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds. After parsing, set values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	NatsURL            string          `json:"nats_url"`
	NatsSubject        string          `json:"nats_subject"`
	SerialPort         string          `json:"serial_port"`
	SerialBaudRate     int             `json:"serial_baud_rate"`
	SerialResetDelay   *timex.Duration `json:"serial_reset_delay"`
	SinkWriteTimeout   *timex.Duration `json:"sink_write_timeout"`
	ExplorerBaseURL    string          `json:"explorer_base_url"`
	RootsLimit         int             `json:"roots_limit"`
	PollInterval       *timex.Duration `json:"poll_interval"`
	MinRecheckInterval *timex.Duration `json:"min_recheck_interval"`
	QueryTimeout       *timex.Duration `json:"query_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the defaults; omitted fields keep
// their current values. Panics on read or unmarshal errors. Intended usage
// is defaults -> parseJson -> parseFlags, where later stages override
// earlier ones.
func parseJson(config *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.NatsURL != "" {
		config.NatsURL = c.NatsURL
	}
	if c.NatsSubject != "" {
		config.NatsSubject = c.NatsSubject
	}
	if c.SerialPort != "" {
		config.SerialPort = c.SerialPort
	}
	if c.SerialBaudRate != 0 {
		config.SerialBaudRate = c.SerialBaudRate
	}
	if c.SerialResetDelay != nil {
		config.SerialResetDelay = c.SerialResetDelay.Duration
	}
	if c.SinkWriteTimeout != nil {
		config.SinkWriteTimeout = c.SinkWriteTimeout.Duration
	}
	if c.ExplorerBaseURL != "" {
		config.ExplorerBaseURL = c.ExplorerBaseURL
	}
	if c.RootsLimit != 0 {
		config.RootsLimit = c.RootsLimit
	}
	if c.PollInterval != nil {
		config.PollInterval = c.PollInterval.Duration
	}
	if c.MinRecheckInterval != nil {
		config.MinRecheckInterval = c.MinRecheckInterval.Duration
	}
	if c.QueryTimeout != nil {
		config.QueryTimeout = c.QueryTimeout.Duration
	}
}
