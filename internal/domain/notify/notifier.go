// Package notify defines the post-commit notification collaborator.
// Engines call it only after a successful commit; delivery failure is
// logged and never rolls a transaction back.
package notify

import (
	"context"
)

// Status of a delivery attempt.
const (
	StatusSent   = "SENT"
	StatusFailed = "FAILED"
)

// Result describes a delivery attempt.
type Result struct {
	Status    string
	MessageID string
	Error     string
}

// Notifier delivers a text message to a customer phone number.
type Notifier interface {
	SendText(ctx context.Context, phoneNumber, message string) (Result, error)
}

// Noop is a Notifier that delivers nothing. Used when messaging is not
// configured.
type Noop struct{}

// SendText implements Notifier.
func (Noop) SendText(ctx context.Context, phoneNumber, message string) (Result, error) {
	return Result{Status: StatusSent}, nil
}
