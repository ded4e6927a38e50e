package config

import (
	"flag"
	"os"
	"time"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/flagx"
)

// parseFlags populates selected relay Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-n string   NATS server URL (e.g., "nats://127.0.0.1:4222")
//	-s string   NATS subject carrying pipeline events
//	-p string   serial port device (e.g., "/dev/ttyACM1")
//	-b int      serial baud rate
//	-e string   PDP explorer base URL
//	-i int      poll interval, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The interval
// flag is accepted as an integer in seconds and converted to time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-s", "-p", "-b", "-e", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.NatsURL, "n", config.NatsURL, "NATS server URL")
	fs.StringVar(&config.NatsSubject, "s", config.NatsSubject, "NATS subject with pipeline events")
	fs.StringVar(&config.SerialPort, "p", config.SerialPort, "serial port device")
	fs.IntVar(&config.SerialBaudRate, "b", config.SerialBaudRate, "serial baud rate")
	fs.StringVar(&config.ExplorerBaseURL, "e", config.ExplorerBaseURL, "PDP explorer base URL")

	pollInterval := fs.Int("i", int(config.PollInterval.Seconds()), "poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Convert only when -i was actually passed: round-tripping through whole
	// seconds would truncate a sub-second interval set by the JSON overlay.
	// A non-positive value would make the poller's ticker panic, so it keeps
	// the current interval.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" && *pollInterval > 0 {
			config.PollInterval = time.Duration(*pollInterval) * time.Second
		}
	})
}
