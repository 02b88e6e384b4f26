package notify

import (
	"context"
	"errors"
	"time"
)

// DeliveredLink is one ready-to-download archive in a delivery notification.
type DeliveredLink struct {
	ProcessCode string
	URL         string
	ExpiresAt   time.Time
}

// DeliveryPayload captures the canonical data we emit when a batch finishes:
// the links that were produced plus the codes that ended without one. It
// never carries credentials.
type DeliveryPayload struct {
	Recipient   string
	BatchID     string
	Links       []DeliveredLink
	EmptyCodes  []string
	FailedCodes []string
	CompletedAt time.Time
}

// Sink describes a destination capable of consuming delivery notifications.
type Sink interface {
	SendDelivery(ctx context.Context, payload DeliveryPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload DeliveryPayload) error

// SendDelivery implements the Sink interface.
func (f SinkFunc) SendDelivery(ctx context.Context, payload DeliveryPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}

// Multi fans one delivery notification out to several sinks. Every sink is
// attempted; errors are joined so one failing destination never silences the
// others. Nil sinks are skipped; with zero live sinks Multi returns nil.
func Multi(sinks ...Sink) Sink {
	live := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return multiSink(live)
}

type multiSink []Sink

// SendDelivery implements the Sink interface.
func (m multiSink) SendDelivery(ctx context.Context, payload DeliveryPayload) error {
	var errs []error
	for _, s := range m {
		if err := s.SendDelivery(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
