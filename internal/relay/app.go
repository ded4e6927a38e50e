// Package relay initializes and runs the status relay: it wires the event
// ingress, the proof poller, the coordinator and the display sink together,
// and handles graceful shutdown.
package relay

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/coordinator"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/display"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/explorer"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/ingress"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/poller"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/relay/config"
)

type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(c *config.Config) *App {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger).With("instance", uuid.NewString())

	return &App{config: c, logger: logger}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the relay and blocks until the context is cancelled or a fatal
// setup error occurs. Once running, no error is fatal: the display degrades,
// ingestion keeps going.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "starting status relay",
		"serial_port", app.config.SerialPort, "nats_url", app.config.NatsURL)

	port, err := display.OpenPort(app.config.SerialPort, app.config.SerialBaudRate, app.config.SerialResetDelay)
	if err != nil {
		return err
	}
	defer port.Close()

	sink := display.NewSink(port, app.config.SinkWriteTimeout, app.logger)
	defer sink.Close()

	coord := coordinator.New(sink, app.logger)

	conn, err := ingress.Connect(app.config.NatsURL, app.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	ing := ingress.New(conn, app.config.NatsSubject, coord, app.logger)
	checker := explorer.NewClient(app.config.ExplorerBaseURL, app.config.RootsLimit, app.config.QueryTimeout, app.logger)
	poll := poller.New(coord, checker,
		app.config.PollInterval, app.config.MinRecheckInterval, app.config.QueryTimeout, app.logger)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ing.Run(ctx); err != nil {
			app.logger.Error(ctx, "event ingress stopped", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poll.Run(ctx)
	}()

	wg.Wait()

	app.logger.Info(ctx, "status relay stopped")
	return nil
}
