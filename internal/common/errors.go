// Package common defines the sentinel errors shared across the relay's
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Ingress errors: a malformed inbound event payload. The message is
	// dropped and logged; ingestion keeps running.
	ErrDecode = errors.New("malformed event payload")

	// Poller errors: a failed proof-health query. The record keeps its
	// current status and is retried on the next tick.
	ErrQuery = errors.New("proof health query failed")

	// Display errors: the serial link is unavailable or rejected a line.
	// The line is lost; the relay's internal state is unaffected.
	ErrLink = errors.New("display link unavailable")
)
