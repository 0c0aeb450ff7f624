package core

import (
	"context"
	"time"
)

// StatusReport is published for every status record that could be parsed.
type StatusReport struct {
	Timestamp       string    `json:"timestamp"`
	Event           string    `json:"event"`
	Flags           uint32    `json:"flags"`
	Docked          bool      `json:"docked"`
	LandingGearDown bool      `json:"landingGearDown"`
	InSRV           bool      `json:"inSRV"`
	FlightAssistOff bool      `json:"flightAssistOff"`
	ObservedAt      time.Time `json:"observedAt"`
}

// CorrectionReport is published for every corrective key press.
type CorrectionReport struct {
	Flags    uint32        `json:"flags"`
	ScanCode uint16        `json:"scanCode"`
	Hold     time.Duration `json:"hold"`
	Error    string        `json:"error,omitempty"`
	FiredAt  time.Time     `json:"firedAt"`
}

// Notifier forwards pipeline results to an outside observer.
type Notifier interface {
	NotifyStatus(ctx context.Context, report StatusReport) error
	NotifyCorrection(ctx context.Context, report CorrectionReport) error
	Close(ctx context.Context)
}

// ReadinessChecker is implemented by notifiers that depend on a connection.
// AwaitReady blocks until the connection is up or ctx is done.
type ReadinessChecker interface {
	AwaitReady(ctx context.Context) error
}

// NopNotifier drops every report.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) NotifyStatus(context.Context, StatusReport) error         { return nil }
func (NopNotifier) NotifyCorrection(context.Context, CorrectionReport) error { return nil }
func (NopNotifier) Close(context.Context)                                    {}
