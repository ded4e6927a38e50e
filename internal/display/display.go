// Package display renders lifecycle records into the two-field line protocol
// and writes them to the serial link. The attached device splits each line on
// the first comma and renders the halves on its two fixed-width rows.
package display

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/common"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/store"
)

const lineBuffer = 32

// Render serializes a record into one wire line: "<name>,<status>\n".
func Render(rec store.FileRecord) string {
	return rec.DisplayName + "," + rec.Status.DisplayText() + "\n"
}

// OpenPort opens the serial link. Opening the port resets the attached
// Arduino, so the caller-configured reset delay is waited out before the
// port is handed back.
// https://forum.arduino.cc/t/autoreset-disabling/350095/4
func OpenPort(portName string, baudRate int, resetDelay time.Duration) (serial.Port, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", common.ErrLink, portName, err)
	}
	time.Sleep(resetDelay)
	return port, nil
}

// Sink feeds rendered lines to the serial link through a single writer
// goroutine, enforcing one write at a time. Enqueueing is bounded: when the
// writer is stalled the line is dropped with an error rather than blocking
// the caller, since display updates are advisory.
type Sink struct {
	w              io.Writer
	enqueueTimeout time.Duration
	logger         logging.Logger

	lines     chan string
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSink starts the writer goroutine over w. Close must be called to stop it.
func NewSink(w io.Writer, enqueueTimeout time.Duration, logger logging.Logger) *Sink {
	s := &Sink{
		w:              w,
		enqueueTimeout: enqueueTimeout,
		logger:         logger,
		lines:          make(chan string, lineBuffer),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sink) run() {
	defer close(s.done)
	ctx := context.Background()
	for {
		select {
		case line := <-s.lines:
			if _, err := s.w.Write([]byte(line)); err != nil {
				s.logger.Error(ctx, "serial write failed", "error", fmt.Errorf("%w: %v", common.ErrLink, err))
			}
		case <-s.quit:
			return
		}
	}
}

// Enqueue renders rec and hands the line to the writer goroutine. It fails
// with an error wrapping common.ErrLink when the sink is closed or the
// writer does not accept the line within the enqueue timeout.
func (s *Sink) Enqueue(rec store.FileRecord) error {
	select {
	case <-s.quit:
		return fmt.Errorf("%w: sink closed", common.ErrLink)
	default:
	}

	timer := time.NewTimer(s.enqueueTimeout)
	defer timer.Stop()

	select {
	case s.lines <- Render(rec):
		return nil
	case <-s.quit:
		return fmt.Errorf("%w: sink closed", common.ErrLink)
	case <-timer.C:
		return fmt.Errorf("%w: writer stalled, dropping line for %s", common.ErrLink, rec.DisplayName)
	}
}

// Close stops accepting lines and waits for any in-flight write to finish.
// Lines still queued are discarded; the display is not a durable surface.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}
