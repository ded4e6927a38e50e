// Package ingress subscribes to the upload pipeline's event subject and
// feeds decoded events to the coordinator. One corrupt message never stalls
// the channel: decode failures are logged and dropped.
package ingress

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/events"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
)

// EventSink accepts decoded pipeline events. Implemented by the coordinator.
type EventSink interface {
	SubmitEvent(ctx context.Context, ev events.Event)
}

// Connect dials the NATS server with infinite reconnects so a bus restart
// does not take the relay down with it.
func Connect(url string, logger logging.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info(context.Background(), "reconnected to nats", "url", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn(context.Background(), "disconnected from nats", "error", err)
		}),
	}
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return conn, nil
}

type Ingress struct {
	conn    *nats.Conn
	subject string
	sink    EventSink
	logger  logging.Logger
}

func New(conn *nats.Conn, subject string, sink EventSink, logger logging.Logger) *Ingress {
	return &Ingress{conn: conn, subject: subject, sink: sink, logger: logger}
}

// Run subscribes to the event subject and blocks until ctx is cancelled.
// Handler dispatch is sequential per subscription, so events reach the
// coordinator in arrival order.
func (i *Ingress) Run(ctx context.Context) error {
	sub, err := i.conn.Subscribe(i.subject, func(msg *nats.Msg) {
		i.handleMessage(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", i.subject, err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			i.logger.Warn(ctx, "unsubscribe failed", "subject", i.subject, "error", err)
		}
	}()

	i.logger.Info(ctx, "event ingress started", "subject", i.subject)
	<-ctx.Done()
	return nil
}

func (i *Ingress) handleMessage(ctx context.Context, data []byte) {
	ev, err := events.Decode(data)
	if err != nil {
		i.logger.Warn(ctx, "dropping malformed event", "error", err)
		return
	}
	i.logger.Debug(ctx, "event received", "file_id", ev.FileIdentifier())
	i.sink.SubmitEvent(ctx, ev)
}
